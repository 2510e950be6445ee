package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuchat/internal/app"
	"docuchat/internal/transport/http/response"
)

type chatRequest struct {
	Query string `json:"query" binding:"required"`
}

type ChatHandler struct {
	rag RAGService
}

func NewChatHandler(rag RAGService) *ChatHandler {
	return &ChatHandler{rag: rag}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "El campo 'query' es obligatorio.")
		return
	}

	answer, err := h.rag.ChatResponse(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAgentNotLoaded):
			response.Error(c, http.StatusBadRequest, "Error: El agente RAG no está inicializado. Llama a /load-agent primero.")
		case errors.Is(err, app.ErrStaleIndex):
			response.Error(c, http.StatusConflict, "El índice cambió desde la última carga. Llama a /load-agent para recargar el agente.")
		default:
			response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Error al procesar la consulta: %v", err))
		}
		return
	}

	response.Chat(c, http.StatusOK, answer)
}
