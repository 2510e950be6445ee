package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuchat/internal/transport/http/response"
)

type IngestHandler struct {
	rag RAGService
}

func NewIngestHandler(rag RAGService) *IngestHandler {
	return &IngestHandler{rag: rag}
}

// Ingest runs a full ingestion pass and tells the caller to reload the
// agent afterwards; ingestion alone never touches the live agent.
func (h *IngestHandler) Ingest(c *gin.Context) {
	summary, err := h.rag.Ingest(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error durante la ingesta: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Ingesta de datos completada. Llama a /load-agent para recargar el agente.",
		"documents":     summary.Documents,
		"chunks":        summary.Chunks,
		"index_version": summary.IndexVersion,
	})
}
