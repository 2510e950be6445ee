package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"gorm.io/gorm"

	"docuchat/internal/model"
	"docuchat/internal/platform/sqlite"
)

// Embedder is the embedding surface the store depends on.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Result is one similarity-search hit, most similar first in a result list.
type Result struct {
	Content  string
	Metadata map[string]any
	Score    float32
}

// Store is a disk-persisted vector store: chunk rows with JSON embeddings in
// a single SQLite file, searched by brute-force cosine similarity.
type Store struct {
	db       *gorm.DB
	path     string
	embedder Embedder
}

// StoreChunks embeds every chunk and persists it into the SQLite file at
// path, creating the file on first use and appending on later runs. The
// index version is bumped once per call. Returns a live handle.
func StoreChunks(ctx context.Context, chunks []model.Chunk, embedder Embedder, path string) (*Store, error) {
	s, err := open(path, embedder)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	vecs, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("embed chunks failed: %w", err)
	}
	if len(vecs) != len(chunks) {
		s.Close()
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vecs))
	}

	records := make([]model.ChunkRecord, len(chunks))
	for i := range chunks {
		records[i] = model.ChunkRecord{Content: chunks[i].Content}
		records[i].SetMetadata(chunks[i].Metadata)
		records[i].SetEmbedding(vecs[i])
	}
	if len(records) > 0 {
		if err := s.db.Create(&records).Error; err != nil {
			s.Close()
			return nil, fmt.Errorf("persist chunk records failed: %w", err)
		}
	}

	version, err := s.bumpVersion()
	if err != nil {
		s.Close()
		return nil, err
	}
	log.Printf("stored %d chunks in %s (index version %d)", len(records), path, version)
	return s, nil
}

// Load reopens a previously persisted store. Fails if the file is absent.
func Load(path string, embedder Embedder) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("vector store not found at %s: %w", path, err)
	}
	return open(path, embedder)
}

func open(path string, embedder Embedder) (*Store, error) {
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.ChunkRecord{}, &model.IndexMeta{}); err != nil {
		_ = sqlite.Close(db)
		return nil, fmt.Errorf("migrate vector store failed: %w", err)
	}
	return &Store{db: db, path: path, embedder: embedder}, nil
}

// SimilaritySearch embeds the query and returns the k nearest records by
// cosine similarity, most similar first.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	var records []model.ChunkRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list chunk records failed: %w", err)
	}

	results := make([]Result, 0, len(records))
	for i := range records {
		results = append(results, Result{
			Content:  records[i].Content,
			Metadata: records[i].MetadataMap(),
			Score:    cosineSimilarity(queryVec, records[i].EmbeddingVector()),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// IndexVersion reads the store's current index version; zero before the
// first ingestion run.
func (s *Store) IndexVersion() (int64, error) {
	var meta model.IndexMeta
	err := s.db.First(&meta, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read index version failed: %w", err)
	}
	return meta.Version, nil
}

// Count returns the number of persisted chunk records.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&model.ChunkRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunk records failed: %w", err)
	}
	return n, nil
}

// Path returns the store's backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return sqlite.Close(s.db)
}

func (s *Store) bumpVersion() (int64, error) {
	var meta model.IndexMeta
	err := s.db.First(&meta, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = model.IndexMeta{ID: 1, Version: 1}
		if err := s.db.Create(&meta).Error; err != nil {
			return 0, fmt.Errorf("create index version failed: %w", err)
		}
		return meta.Version, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read index version failed: %w", err)
	}
	meta.Version++
	if err := s.db.Save(&meta).Error; err != nil {
		return 0, fmt.Errorf("update index version failed: %w", err)
	}
	return meta.Version, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
