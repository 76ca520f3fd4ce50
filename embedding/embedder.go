// Package embedding provides text embedding for chunk indexing and query search.
package embedding

import "context"

// Embedder converts text into dense vectors.
type Embedder interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// EmbedDocuments embeds a batch of document texts, one vector per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
