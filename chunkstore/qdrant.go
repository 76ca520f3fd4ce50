package chunkstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/embedding"
)

// pointNamespace is the fixed UUID namespace for deriving point IDs, so the
// same chunk maps to the same point across runs.
var pointNamespace = uuid.MustParse("5f2b9c41-7d38-4a06-9e1d-8c3f0a6b2e74")

// pointID derives the Qdrant point ID for a chunk. Qdrant only accepts
// unsigned-integer or UUID point IDs, so chunk IDs cannot be used directly;
// they travel in the payload instead.
func pointID(chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}

// QdrantStore is a minimal REST adapter to a Qdrant collection configured
// for cosine distance. Scores come back as cosine similarity, so the adapter
// converts them to distances (1 - score) to keep the Store contract uniform.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	embedder   embedding.Embedder
	client     *http.Client
}

var _ Store = (*QdrantStore)(nil)

// QdrantOptions configures a QdrantStore.
type QdrantOptions struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewQdrantStore creates a Qdrant-backed chunk store.
func NewQdrantStore(opts QdrantOptions, embedder embedding.Embedder) *QdrantStore {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		url:        opts.URL,
		apiKey:     opts.APIKey,
		collection: opts.Collection,
		embedder:   embedder,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection if it does not exist.
func (s *QdrantStore) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("chunkstore: invalid dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

// Upsert indexes chunks with their embeddings, keyed by chunk ID.
func (s *QdrantStore) Upsert(ctx context.Context, chunks []corpus.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunkstore: chunks and vectors must have same length")
	}
	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		points[i] = map[string]any{
			"id":     pointID(c.ID),
			"vector": vectors[i],
			"payload": map[string]any{
				"chunk_id":   c.ID,
				"article_id": c.ArticleID,
				"title":      c.Title,
				"url":        c.URL,
				"seq":        c.Seq,
				"text":       c.Text,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search returns the top-k chunks for the query text, ascending by distance.
func (s *QdrantStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, errors.New("chunkstore: k must be positive")
	}
	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: embedding query: %w", err)
	}

	req := map[string]any{
		"vector":       queryVec,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Result))
	for _, r := range resp.Result {
		res := Result{Distance: 1 - r.Score}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			res.ID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			res.Text = v
		}
		if v, ok := r.Payload["title"].(string); ok {
			res.Title = v
		}
		if v, ok := r.Payload["url"].(string); ok {
			res.URL = v
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *QdrantStore) putJSON(ctx context.Context, url string, body any) error {
	return s.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (s *QdrantStore) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("chunkstore: encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("chunkstore: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("chunkstore: qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chunkstore: qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("chunkstore: decoding response: %w", err)
		}
	}
	return nil
}
