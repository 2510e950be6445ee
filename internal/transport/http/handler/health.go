package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	rag       RAGService
	redis     *redisv9.Client
	mqConn    *amqp.Connection
	startedAt time.Time
}

func NewHealthHandler(rag RAGService, redis *redisv9.Client, mqConn *amqp.Connection, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		rag:       rag,
		redis:     redis,
		mqConn:    mqConn,
		startedAt: startedAt,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{
		"agent_loaded": h.rag.AgentLoaded(),
	}
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	if h.mqConn != nil {
		if h.mqConn.IsClosed() {
			checks["rabbitmq"] = "down"
			healthy = false
		} else {
			checks["rabbitmq"] = "up"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"checks": checks,
	})
}
