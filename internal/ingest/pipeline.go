package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"docuchat/internal/config"
	"docuchat/internal/metadata"
	"docuchat/internal/model"
	"docuchat/internal/vectorstore"
)

// MetadataGenerator produces structured metadata for a text, nil on failure.
type MetadataGenerator interface {
	Generate(ctx context.Context, text string) *metadata.DocumentMetadata
}

// Summary reports what an ingestion run produced.
type Summary struct {
	Documents    int   `json:"documents"`
	Chunks       int   `json:"chunks"`
	IndexVersion int64 `json:"index_version"`
}

// Pipeline runs the full ingestion flow: load, document metadata, split,
// chunk metadata, embed, persist.
type Pipeline struct {
	cfg       config.IngestConfig
	storePath string
	generator MetadataGenerator
	embedder  vectorstore.Embedder
}

func NewPipeline(cfg config.IngestConfig, storePath string, generator MetadataGenerator, embedder vectorstore.Embedder) *Pipeline {
	if cfg.MetadataWorkers <= 0 {
		cfg.MetadataWorkers = 1
	}
	return &Pipeline{
		cfg:       cfg,
		storePath: storePath,
		generator: generator,
		embedder:  embedder,
	}
}

// Run executes one ingestion pass. Metadata generation failures are
// tolerated (nil entries); every other failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	docs, err := LoadDocuments(p.cfg.DataDir)
	if err != nil {
		return nil, err
	}

	docMetas := p.generateAll(ctx, documentTexts(docs))
	for i := range docs {
		if docMetas[i] != nil {
			docs[i].Metadata["generated_metadata"] = docMetas[i]
		}
	}
	if err := p.writeMetadataFile(docMetas); err != nil {
		return nil, err
	}

	splitter := NewSplitter(p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	chunks := splitter.SplitDocuments(docs)

	chunkMetas := p.generateAll(ctx, chunkTexts(chunks))
	for i := range chunks {
		if chunkMetas[i] != nil {
			chunks[i].Metadata["generated_metadata"] = chunkMetas[i]
		}
	}

	store, err := vectorstore.StoreChunks(ctx, chunks, p.embedder, p.storePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	version, err := store.IndexVersion()
	if err != nil {
		return nil, err
	}

	return &Summary{
		Documents:    len(docs),
		Chunks:       len(chunks),
		IndexVersion: version,
	}, nil
}

// generateAll runs metadata generation over texts with a bounded worker
// pool, preserving input order. Individual failures yield nil entries.
func (p *Pipeline) generateAll(ctx context.Context, texts []string) []*metadata.DocumentMetadata {
	results := make([]*metadata.DocumentMetadata, len(texts))
	if p.generator == nil || len(texts) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MetadataWorkers)
	for i := range texts {
		i := i
		g.Go(func() error {
			results[i] = p.generator.Generate(gctx, texts[i])
			return nil
		})
	}
	// Workers never return errors; Generate swallows its own.
	_ = g.Wait()
	return results
}

// writeMetadataFile overwrites the document-level metadata dump each run.
func (p *Pipeline) writeMetadataFile(metas []*metadata.DocumentMetadata) error {
	if p.cfg.MetadataPath == "" {
		return nil
	}
	payload, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata list failed: %w", err)
	}
	if err := os.WriteFile(p.cfg.MetadataPath, payload, 0o644); err != nil {
		return fmt.Errorf("write metadata file failed: %w", err)
	}
	log.Printf("document metadata saved to %s", p.cfg.MetadataPath)
	return nil
}

func documentTexts(docs []model.Document) []string {
	out := make([]string, len(docs))
	for i := range docs {
		out[i] = docs[i].Content
	}
	return out
}

func chunkTexts(chunks []model.Chunk) []string {
	out := make([]string, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Content
	}
	return out
}
