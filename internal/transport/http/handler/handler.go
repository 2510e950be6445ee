package handler

import (
	"context"

	"docuchat/internal/ingest"
)

// RAGService is the application surface the HTTP handlers depend on.
type RAGService interface {
	Ingest(ctx context.Context) (*ingest.Summary, error)
	ReloadAgent(ctx context.Context) error
	ChatResponse(ctx context.Context, query string) (string, error)
	AgentLoaded() bool
}
