package http

import (
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"

	"docuchat/internal/transport/http/handler"
)

// NewRouter wires the HTTP surface: ingestion lifecycle, chat, health and
// the static chat page.
func NewRouter(
	rag handler.RAGService,
	redisClient *redisv9.Client,
	mqConn *amqp.Connection,
	startedAt time.Time,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	rootHandler := handler.NewRootHandler()
	ingestHandler := handler.NewIngestHandler(rag)
	agentHandler := handler.NewAgentHandler(rag)
	chatHandler := handler.NewChatHandler(rag)
	healthHandler := handler.NewHealthHandler(rag, redisClient, mqConn, startedAt)

	router.GET("/", rootHandler.Root)
	router.GET("/healthz", healthHandler.Health)
	router.POST("/ingest", ingestHandler.Ingest)
	router.POST("/load-agent", agentHandler.Load)
	router.POST("/chat", chatHandler.Chat)
	router.StaticFile("/ui", "web/chat.html")

	return router
}
