// Package chunkstore adapts a vector-similarity index for chunk retrieval.
//
// A Store answers "which chunks are most similar to this query text" and
// returns them ascending by distance (lower = more similar). Errors from the
// underlying index surface as a retrieval-unavailable condition; callers
// degrade to whatever other evidence they have rather than failing the turn.
package chunkstore

import (
	"context"

	"github.com/corpusai/corpuschat/corpus"
)

// Result is a single similarity hit with denormalized article metadata.
type Result struct {
	ID       string
	Text     string
	Distance float64
	Title    string
	URL      string
}

// Store is the vector index adapter the chat engine and ingestion depend on.
type Store interface {
	// Upsert indexes chunks with their embeddings, keyed by chunk ID.
	// Re-ingestion of the same IDs overwrites in place.
	Upsert(ctx context.Context, chunks []corpus.Chunk, vectors [][]float32) error
	// Search returns the top-k chunks for the query text, ascending by
	// distance. Ties keep the underlying index's return order.
	Search(ctx context.Context, query string, k int) ([]Result, error)
}
