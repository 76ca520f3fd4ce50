package chunkstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpusai/corpuschat/corpus"
)

// stubEmbedder maps exact texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (e *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vectors[text], nil
}

func (e *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vectors[t]
	}
	return out, nil
}

func TestMemoryStoreSearchRanksByCosineDistance(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	store := NewMemoryStore(embedder)

	chunks := []corpus.Chunk{
		{ID: "0_a", ArticleID: "a", Title: "A", URL: "u_a", Text: "orthogonal"},
		{ID: "1_a", ArticleID: "a", Title: "A", URL: "u_a", Text: "aligned"},
		{ID: "0_b", ArticleID: "b", Title: "B", URL: "u_b", Text: "diagonal"},
	}
	vectors := [][]float32{{0, 1}, {1, 0}, {1, 1}}
	require.NoError(t, store.Upsert(ctx, chunks, vectors))

	results, err := store.Search(ctx, "query", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "aligned", results[0].Text)
	assert.Equal(t, "diagonal", results[1].Text)
	assert.Equal(t, "orthogonal", results[2].Text)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
	assert.InDelta(t, 1, results[2].Distance, 1e-6)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, "u_a", results[0].URL)
}

func TestMemoryStoreSearchTruncatesToK(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	store := NewMemoryStore(embedder)

	require.NoError(t, store.Upsert(ctx,
		[]corpus.Chunk{{ID: "0_a", Text: "x"}, {ID: "1_a", Text: "y"}},
		[][]float32{{1, 0}, {0, 1}},
	))

	results, err := store.Search(ctx, "query", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStoreSearchRejectsNonPositiveK(t *testing.T) {
	store := NewMemoryStore(&stubEmbedder{})
	_, err := store.Search(context.Background(), "query", 0)
	assert.Error(t, err)
}

func TestMemoryStoreUpsertOverwritesByID(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	store := NewMemoryStore(embedder)

	require.NoError(t, store.Upsert(ctx, []corpus.Chunk{{ID: "0_a", Text: "old"}}, [][]float32{{0, 1}}))
	require.NoError(t, store.Upsert(ctx, []corpus.Chunk{{ID: "0_a", Text: "new"}}, [][]float32{{1, 0}}))

	results, err := store.Search(ctx, "query", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Text)
}

func TestMemoryStoreUpsertLengthMismatch(t *testing.T) {
	store := NewMemoryStore(&stubEmbedder{})
	err := store.Upsert(context.Background(), []corpus.Chunk{{ID: "0_a"}}, nil)
	assert.Error(t, err)
}

func TestCosineDistanceEdgeCases(t *testing.T) {
	assert.Equal(t, float64(1), cosineDistance([]float32{1, 0}, []float32{1}))
	assert.Equal(t, float64(1), cosineDistance([]float32{0, 0}, []float32{1, 0}))
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}
