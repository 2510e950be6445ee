package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/config"
	"docuchat/internal/metadata"
	"docuchat/internal/vectorstore"
)

type stubGenerator struct {
	calls atomic.Int64
	fail  bool
}

func (g *stubGenerator) Generate(_ context.Context, text string) *metadata.DocumentMetadata {
	g.calls.Add(1)
	if g.fail {
		return nil
	}
	return &metadata.DocumentMetadata{
		Title:   "generated",
		Summary: "resumen de: " + text[:min(10, len(text))],
	}
}

type flatEmbedder struct{}

func (flatEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (flatEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func pipelineFixture(t *testing.T, generator MetadataGenerator) (*Pipeline, string, string) {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.Mkdir(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.txt"), []byte("primer documento con algo de texto"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "b.txt"), []byte("segundo documento con otro texto"), 0o644))

	metadataPath := filepath.Join(dir, "metadata.json")
	storePath := filepath.Join(dir, "store.db")

	cfg := config.IngestConfig{
		DataDir:         dataDir,
		ChunkSize:       20,
		ChunkOverlap:    4,
		MetadataWorkers: 2,
		MetadataPath:    metadataPath,
	}
	return NewPipeline(cfg, storePath, generator, flatEmbedder{}), metadataPath, storePath
}

func TestPipelineRun(t *testing.T) {
	generator := &stubGenerator{}
	pipeline, metadataPath, storePath := pipelineFixture(t, generator)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Documents)
	assert.Greater(t, summary.Chunks, 2)
	assert.Equal(t, int64(1), summary.IndexVersion)

	// One generation per document plus one per chunk.
	assert.Equal(t, int64(2+summary.Chunks), generator.calls.Load())

	raw, err := os.ReadFile(metadataPath)
	require.NoError(t, err)
	var metas []*metadata.DocumentMetadata
	require.NoError(t, json.Unmarshal(raw, &metas))
	require.Len(t, metas, 2)
	assert.Equal(t, "generated", metas[0].Title)

	store, err := vectorstore.Load(storePath, flatEmbedder{})
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, summary.Chunks, count)

	results, err := store.SimilaritySearch(context.Background(), "texto", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Metadata, "source")
	assert.Contains(t, results[0].Metadata, "generated_metadata")
}

func TestPipelineToleratesMetadataFailures(t *testing.T) {
	generator := &stubGenerator{fail: true}
	pipeline, metadataPath, _ := pipelineFixture(t, generator)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Documents)

	raw, err := os.ReadFile(metadataPath)
	require.NoError(t, err)
	var metas []*metadata.DocumentMetadata
	require.NoError(t, json.Unmarshal(raw, &metas))
	require.Len(t, metas, 2)
	assert.Nil(t, metas[0])
}

func TestPipelineWithoutGenerator(t *testing.T) {
	pipeline, metadataPath, _ := pipelineFixture(t, nil)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Documents)

	// The metadata dump is still written, just with null entries.
	_, err = os.Stat(metadataPath)
	require.NoError(t, err)
}

func TestPipelineMissingDataDir(t *testing.T) {
	cfg := config.IngestConfig{DataDir: filepath.Join(t.TempDir(), "nope")}
	pipeline := NewPipeline(cfg, filepath.Join(t.TempDir(), "store.db"), nil, flatEmbedder{})

	_, err := pipeline.Run(context.Background())
	require.Error(t, err)
}
