package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuchat/internal/transport/http/response"
)

type AgentHandler struct {
	rag RAGService
}

func NewAgentHandler(rag RAGService) *AgentHandler {
	return &AgentHandler{rag: rag}
}

// Load rebuilds the agent from the persisted vector store.
func (h *AgentHandler) Load(c *gin.Context) {
	if err := h.rag.ReloadAgent(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error al cargar el agente: %v", err))
		return
	}
	response.OK(c, http.StatusOK, "Agente cargado exitosamente.")
}
