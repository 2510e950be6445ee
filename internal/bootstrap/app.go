package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docuchat/internal/app"
	"docuchat/internal/cache"
	"docuchat/internal/config"
	"docuchat/internal/model"
	"docuchat/internal/platform/rabbitmq"
	"docuchat/internal/platform/redis"
	"docuchat/internal/platform/sqlite"
	"docuchat/internal/repository"
	"docuchat/internal/worker"
)

// App holds every long-lived resource the server needs. New fails hard when
// a backing service is unreachable; the process should not come up half
// wired.
type App struct {
	Config *config.Config

	DB     *gorm.DB
	Redis  *redisv9.Client
	MQConn *amqp.Connection

	TranscriptWorker *worker.TranscriptPersistWorker
	Holder           *app.AgentHolder
	RAG              *app.RAGService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	gin.SetMode(cfg.App.GinMode)

	db, err := sqlite.New(cfg.Store.TranscriptPath)
	if err != nil {
		return nil, fmt.Errorf("open transcript db failed: %w", err)
	}
	if err := db.AutoMigrate(&model.ChatMessage{}); err != nil {
		sqlite.Close(db)
		return nil, fmt.Errorf("migrate transcript db failed: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlite.Close(db)
		return nil, err
	}

	mqConn, err := rabbitmq.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		_ = redisClient.Close()
		sqlite.Close(db)
		return nil, err
	}

	transcriptRepo := repository.NewChatMessageRepository(db)
	transcriptWorker := worker.NewTranscriptPersistWorker(mqConn, transcriptRepo, cfg.RabbitMQ.TranscriptQueue)
	if err := transcriptWorker.Start(ctx); err != nil {
		_ = mqConn.Close()
		_ = redisClient.Close()
		sqlite.Close(db)
		return nil, err
	}

	publisher := rabbitmq.NewTranscriptPublisher(mqConn, cfg.RabbitMQ.TranscriptQueue)
	answerCache := cache.NewAnswerCache(redisClient, time.Duration(cfg.Redis.AnswerTTLSeconds)*time.Second)

	holder := app.NewAgentHolder()
	rag := app.NewRAGService(cfg, holder, publisher, answerCache)

	return &App{
		Config:           cfg,
		DB:               db,
		Redis:            redisClient,
		MQConn:           mqConn,
		TranscriptWorker: transcriptWorker,
		Holder:           holder,
		RAG:              rag,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() {
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if current := a.Holder.Clear(); current != nil {
		_ = current.Close()
	}
	if a.MQConn != nil {
		_ = a.MQConn.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		sqlite.Close(a.DB)
	}
}
