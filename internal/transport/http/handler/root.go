package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bienvenido al chatbot RAG. Usa /ingest para indexar documentos, /load-agent para cargar el agente y /chat para conversar.",
	})
}
