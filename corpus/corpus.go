// Package corpus models the ingested article corpus: article metadata,
// chunk identity, and the roster the chat engine exposes to the model.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when an article is not in the store.
var ErrNotFound = errors.New("corpus: article not found")

// Article is one ingested article. ID is the stable join key across the
// corpus store, the chunk store, and the retrieval tool; Title is display-only.
// Articles are immutable after ingestion except for re-ingestion of the same
// ID, which overwrites, and the asynchronous summary attachment.
type Article struct {
	ID          string
	Title       string
	URL         string
	PublishedAt time.Time
	Summary     string
}

// Chunk is a contiguous span of an article's normalized text. Sibling chunks
// do not overlap. Parent metadata is denormalized for retrieval-time display.
type Chunk struct {
	ID        string
	ArticleID string
	Title     string
	URL       string
	Seq       int
	Text      string
}

// ChunkID builds the stable chunk identity for a sequence index within an
// article. Re-ingesting an article produces the same IDs, so the chunk store
// upserts rather than duplicates.
func ChunkID(articleID string, seq int) string {
	return fmt.Sprintf("%d_%s", seq, articleID)
}

// Store persists article metadata and summaries.
type Store interface {
	// Upsert inserts or overwrites an article keyed by ID.
	Upsert(ctx context.Context, a Article) error
	// Get returns the article with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Article, error)
	// GetByTitle returns the article with the given exact title or ErrNotFound.
	GetByTitle(ctx context.Context, title string) (Article, error)
	// List returns all articles ordered most recent first.
	List(ctx context.Context) ([]Article, error)
	// SetSummary attaches a precomputed summary to an article.
	SetSummary(ctx context.Context, id, summary string) error
}

// MemoryStore is an in-memory Store, safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]Article
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{articles: make(map[string]Article)}
}

// Upsert inserts or overwrites an article keyed by ID.
func (s *MemoryStore) Upsert(ctx context.Context, a Article) error {
	if a.ID == "" {
		return errors.New("corpus: article id is required")
	}
	s.mu.Lock()
	s.articles[a.ID] = a
	s.mu.Unlock()
	return nil
}

// Get returns the article with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return Article{}, ErrNotFound
	}
	return a, nil
}

// GetByTitle returns the article with the given exact title.
func (s *MemoryStore) GetByTitle(ctx context.Context, title string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.Title == title {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

// List returns all articles ordered most recent first.
func (s *MemoryStore) List(ctx context.Context) ([]Article, error) {
	s.mu.RLock()
	out := make([]Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}

// SetSummary attaches a precomputed summary to an article.
func (s *MemoryStore) SetSummary(ctx context.Context, id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrNotFound
	}
	a.Summary = summary
	s.articles[id] = a
	return nil
}
