package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultEmbeddingBatchSize = 10 // most providers cap batch input size

// EmbeddingConfig holds API settings for text embeddings.
type EmbeddingConfig struct {
	Model     string
	BatchSize int
}

// Embedder converts texts to fixed-length vectors through an
// OpenAI-compatible embeddings endpoint, bound to one model.
type Embedder struct {
	api *openai.Client
	cfg EmbeddingConfig
}

func NewEmbedder(api *openai.Client, cfg EmbeddingConfig) *Embedder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultEmbeddingBatchSize
	}
	return &Embedder{api: api, cfg: cfg}
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}
	vecs, err := e.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return vecs[0], nil
}

// EmbedBatch returns embeddings for all texts, issuing the API calls in
// batches of at most cfg.BatchSize inputs.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.cfg.BatchSize {
		end := i + e.cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(texts), len(out))
	}
	return out, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.cfg.Model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings failed: %w", err)
	}
	vecs := make([][]float32, len(resp.Data))
	for i := range resp.Data {
		vecs[i] = resp.Data[i].Embedding
	}
	return vecs, nil
}
