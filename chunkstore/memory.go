package chunkstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/embedding"
)

// MemoryStore is an in-memory vector index using cosine distance.
// It embeds queries through the configured embedder and is safe for
// concurrent reads with interleaved upserts.
type MemoryStore struct {
	embedder embedding.Embedder

	mu      sync.RWMutex
	order   []string // insertion order, keeps tie-breaks deterministic
	chunks  map[string]corpus.Chunk
	vectors map[string][]float32
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory chunk store.
func NewMemoryStore(embedder embedding.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder: embedder,
		chunks:   make(map[string]corpus.Chunk),
		vectors:  make(map[string][]float32),
	}
}

// Upsert indexes chunks with their embeddings, keyed by chunk ID.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []corpus.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunkstore: chunks and vectors must have same length")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("chunkstore: chunk %d has no id", i)
		}
		if _, exists := s.chunks[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.chunks[c.ID] = c
		s.vectors[c.ID] = vectors[i]
	}
	return nil
}

// Search returns the top-k chunks for the query text, ascending by distance.
func (s *MemoryStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, errors.New("chunkstore: k must be positive")
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: embedding query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		c := s.chunks[id]
		results = append(results, Result{
			ID:       c.ID,
			Text:     c.Text,
			Distance: cosineDistance(queryVec, s.vectors[id]),
			Title:    c.Title,
			URL:      c.URL,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// cosineDistance is 1 - cosine similarity; 0 means identical direction.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
