package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"docuchat/internal/agent"
	"docuchat/internal/ai"
	"docuchat/internal/config"
	"docuchat/internal/ingest"
	"docuchat/internal/metadata"
	"docuchat/internal/model"
	"docuchat/internal/vectorstore"
)

var (
	// ErrAgentNotLoaded means no agent has been loaded yet, or the last
	// load attempt failed.
	ErrAgentNotLoaded = errors.New("rag agent is not initialized")

	// ErrStaleIndex means the vector store was re-ingested after the
	// current agent was loaded.
	ErrStaleIndex = errors.New("rag agent is stale, reload it")
)

// TranscriptPublisher hands finished exchanges to the async persist queue.
type TranscriptPublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

// AnswerCache short-circuits repeated queries.
type AnswerCache interface {
	Get(ctx context.Context, query string) (string, bool, error)
	Set(ctx context.Context, query, answer string) error
	Flush(ctx context.Context) error
}

// RAGService owns the ingestion pipeline and the live agent, and is the
// single entry point the HTTP handlers talk to.
type RAGService struct {
	cfg       *config.Config
	holder    *AgentHolder
	publisher TranscriptPublisher
	cache     AnswerCache
}

func NewRAGService(cfg *config.Config, holder *AgentHolder, publisher TranscriptPublisher, cache AnswerCache) *RAGService {
	return &RAGService{
		cfg:       cfg,
		holder:    holder,
		publisher: publisher,
		cache:     cache,
	}
}

// Ingest runs one full ingestion pass over the configured data directory.
func (s *RAGService) Ingest(ctx context.Context) (*ingest.Summary, error) {
	if s.cfg.Embedding.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is not configured")
	}
	if s.cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}

	llm := ai.NewClient(s.cfg.LLM.BaseURL, s.cfg.LLM.APIKey)
	generator := metadata.NewGenerator(llm, s.cfg.LLM.Model)

	embedder := ai.NewEmbedder(
		ai.NewClient(s.cfg.Embedding.BaseURL, s.cfg.Embedding.APIKey),
		ai.EmbeddingConfig{Model: s.cfg.Embedding.Model, BatchSize: s.cfg.Embedding.BatchSize},
	)

	pipeline := ingest.NewPipeline(s.cfg.Ingest, s.cfg.Store.Path, generator, embedder)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}

	log.Printf("ingestion finished: %d documents, %d chunks, index version %d",
		summary.Documents, summary.Chunks, summary.IndexVersion)
	return summary, nil
}

// ReloadAgent builds a fresh agent from the persisted vector store and
// swaps it in. On failure the previous agent is discarded so chat reports
// the agent as not loaded rather than serving stale answers.
func (s *RAGService) ReloadAgent(ctx context.Context) error {
	next, err := s.buildAgent(ctx)
	if err != nil {
		if prev := s.holder.Clear(); prev != nil {
			_ = prev.Close()
		}
		return err
	}

	if prev := s.holder.Swap(next); prev != nil {
		_ = prev.Close()
	}
	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			log.Printf("flush answer cache failed: %v", err)
		}
	}
	log.Printf("agent loaded against index version %d", next.IndexVersion())
	return nil
}

func (s *RAGService) buildAgent(ctx context.Context) (*agent.Agent, error) {
	if s.cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}
	if s.cfg.Embedding.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is not configured")
	}

	embedder := ai.NewEmbedder(
		ai.NewClient(s.cfg.Embedding.BaseURL, s.cfg.Embedding.APIKey),
		ai.EmbeddingConfig{Model: s.cfg.Embedding.Model, BatchSize: s.cfg.Embedding.BatchSize},
	)

	store, err := vectorstore.Load(s.cfg.Store.Path, embedder)
	if err != nil {
		return nil, err
	}

	version, err := store.IndexVersion()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	llm := ai.NewClient(s.cfg.LLM.BaseURL, s.cfg.LLM.APIKey)
	return agent.New(llm, store, s.cfg.LLM.Model, version), nil
}

// ChatResponse answers one query through the loaded agent. Cache reads and
// transcript persistence are best effort; only agent failures surface.
func (s *RAGService) ChatResponse(ctx context.Context, query string) (string, error) {
	current := s.acquireAgent()
	if current == nil {
		return "", ErrAgentNotLoaded
	}
	defer func() { _ = current.Release() }()

	stale, err := current.Stale()
	if err != nil {
		return "", fmt.Errorf("check index version failed: %w", err)
	}
	if stale {
		return "", ErrStaleIndex
	}

	if s.cache != nil {
		if answer, ok, err := s.cache.Get(ctx, query); err != nil {
			log.Printf("answer cache read failed: %v", err)
		} else if ok {
			return answer, nil
		}
	}

	answer, err := current.Respond(ctx, query)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, answer); err != nil {
			log.Printf("answer cache write failed: %v", err)
		}
	}
	s.publishTranscript(ctx, query, answer)

	return answer, nil
}

// acquireAgent pins the current agent for one request. A nil return means no
// agent is loaded. An acquire can lose the race with a reload that already
// closed the swapped-out agent; re-reading the holder then yields the
// replacement (or nil after a clear).
func (s *RAGService) acquireAgent() *agent.Agent {
	for {
		current := s.holder.Load()
		if current == nil {
			return nil
		}
		if current.Acquire() {
			return current
		}
	}
}

// AgentLoaded reports whether chat requests can currently be served.
func (s *RAGService) AgentLoaded() bool {
	return s.holder.Load() != nil
}

func (s *RAGService) publishTranscript(ctx context.Context, query, answer string) {
	if s.publisher == nil {
		return
	}
	now := time.Now()
	entries := []model.ChatMessage{
		{Role: "user", Content: query, CreatedAt: now},
		{Role: "assistant", Content: answer, CreatedAt: now},
	}
	for _, entry := range entries {
		if err := s.publisher.Publish(ctx, entry); err != nil {
			log.Printf("publish transcript failed: %v", err)
			return
		}
	}
}
