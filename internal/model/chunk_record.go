package model

import (
	"encoding/json"
	"time"
)

// ChunkRecord is a persisted chunk with its embedding, one row per chunk.
// Embedding and Metadata are stored as JSON text for portability.
type ChunkRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	Embedding string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (r *ChunkRecord) EmbeddingVector() []float32 {
	if r.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(r.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (r *ChunkRecord) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		r.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	r.Embedding = string(b)
}

// MetadataMap returns the parsed metadata mapping; empty on parse error.
func (r *ChunkRecord) MetadataMap() map[string]any {
	if r.Metadata == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(r.Metadata), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// SetMetadata stores the metadata mapping as JSON.
func (r *ChunkRecord) SetMetadata(meta map[string]any) {
	if len(meta) == 0 {
		r.Metadata = "{}"
		return
	}
	b, err := json.Marshal(meta)
	if err != nil {
		r.Metadata = "{}"
		return
	}
	r.Metadata = string(b)
}

// IndexMeta is a single-row table tracking the vector store's index version.
// Every ingestion run bumps Version; agents record the version they loaded.
type IndexMeta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   int64     `gorm:"not null" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
