package splitter

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/corpusai/corpuschat/corpus"
)

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 1000

// MarkdownChunker splits article markdown into non-overlapping chunks
// bounded by a maximum size, preferring markdown structure boundaries.
type MarkdownChunker struct {
	inner textsplitter.MarkdownTextSplitter
}

// MarkdownChunkerOption configures a MarkdownChunker.
type MarkdownChunkerOption func(*[]textsplitter.Option)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) MarkdownChunkerOption {
	return func(opts *[]textsplitter.Option) {
		*opts = append(*opts, textsplitter.WithChunkSize(size))
	}
}

// NewMarkdownChunker creates a chunker with no overlap between siblings.
func NewMarkdownChunker(opts ...MarkdownChunkerOption) *MarkdownChunker {
	inner := []textsplitter.Option{
		textsplitter.WithChunkSize(DefaultChunkSize),
		textsplitter.WithChunkOverlap(0),
	}
	for _, opt := range opts {
		opt(&inner)
	}
	return &MarkdownChunker{inner: *textsplitter.NewMarkdownTextSplitter(inner...)}
}

// Split chunks an article's markdown into corpus chunks with stable IDs and
// denormalized parent metadata.
func (c *MarkdownChunker) Split(a corpus.Article, markdown string) ([]corpus.Chunk, error) {
	texts, err := c.inner.SplitText(markdown)
	if err != nil {
		return nil, fmt.Errorf("splitter: chunking %q: %w", a.Title, err)
	}

	chunks := make([]corpus.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, corpus.Chunk{
			ID:        corpus.ChunkID(a.ID, i),
			ArticleID: a.ID,
			Title:     a.Title,
			URL:       a.URL,
			Seq:       i,
			Text:      text,
		})
	}
	return chunks, nil
}
