package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/model"
)

// stubEmbedder returns a fixed vector per known text so similarity order is
// fully controlled by the test.
type stubEmbedder struct {
	vecs map[string][]float32
}

func (e stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vecs[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (e stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func testChunks() []model.Chunk {
	return []model.Chunk{
		{Content: "perros y gatos", Metadata: map[string]any{"source": "data/animales.txt"}},
		{Content: "contratos y leyes", Metadata: map[string]any{"source": "data/legal.txt"}},
		{Content: "recetas de cocina", Metadata: map[string]any{"source": "data/cocina.txt"}},
	}
}

func testEmbedder() stubEmbedder {
	return stubEmbedder{vecs: map[string][]float32{
		"perros y gatos":    {1, 0, 0},
		"contratos y leyes": {0, 1, 0},
		"recetas de cocina": {0, 0, 1},
		"algo legal":        {0.1, 0.9, 0},
	}}
}

func TestStoreChunksCreatesFileAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	store, err := StoreChunks(context.Background(), testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	version, err := store.IndexVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestStoreChunksBumpsVersionPerRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	first, err := StoreChunks(ctx, testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := StoreChunks(ctx, testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	defer second.Close()

	version, err := second.IndexVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	count, err := second.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestIndexVersionZeroBeforeFirstIngest(t *testing.T) {
	store, err := open(filepath.Join(t.TempDir(), "store.db"), testEmbedder())
	require.NoError(t, err)
	defer store.Close()

	version, err := store.IndexVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.db"), testEmbedder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store not found")
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	store, err := StoreChunks(ctx, testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Load(path, testEmbedder())
	require.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.SimilaritySearch(ctx, "algo legal", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "contratos y leyes", results[0].Content)
	assert.Equal(t, "data/legal.txt", results[0].Metadata["source"])
}

func TestSimilaritySearchOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	store, err := StoreChunks(ctx, testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.SimilaritySearch(ctx, "algo legal", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "contratos y leyes", results[0].Content)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSimilaritySearchKLargerThanStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	store, err := StoreChunks(ctx, testChunks(), testEmbedder(), path)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.SimilaritySearch(ctx, "algo legal", 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
