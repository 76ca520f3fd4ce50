package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonArticle is the on-disk corpus file entry. Publish dates are in the
// RSS RFC 1123 format the feed delivers them in.
type jsonArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	PublicURL   string `json:"public_url"`
	PublishDate string `json:"publish_date"`
	Summary     string `json:"summary"`
}

var dateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339}

// LoadJSON reads a corpus metadata file: a JSON array of articles ordered
// most recent first. Entries without an explicit id fall back to the title,
// preserving files written before synthetic ids were introduced.
func LoadJSON(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", path, err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes corpus metadata from raw JSON.
func ParseJSON(data []byte) ([]Article, error) {
	var raw []jsonArticle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("corpus: decoding metadata: %w", err)
	}

	articles := make([]Article, 0, len(raw))
	for i, entry := range raw {
		published, err := parseDate(entry.PublishDate)
		if err != nil {
			return nil, fmt.Errorf("corpus: entry %d (%q): %w", i, entry.Title, err)
		}
		id := entry.ID
		if id == "" {
			id = entry.Title
		}
		articles = append(articles, Article{
			ID:          id,
			Title:       entry.Title,
			URL:         entry.PublicURL,
			PublishedAt: published,
			Summary:     entry.Summary,
		})
	}
	return articles, nil
}

// SeedFromJSON loads a corpus metadata file and upserts every article into
// the store. It returns the number of articles seeded. This is how the chat
// command boots a roster without a database.
func SeedFromJSON(ctx context.Context, store Store, path string) (int, error) {
	articles, err := LoadJSON(path)
	if err != nil {
		return 0, err
	}
	for _, a := range articles {
		if err := store.Upsert(ctx, a); err != nil {
			return 0, fmt.Errorf("corpus: seeding %q: %w", a.Title, err)
		}
	}
	return len(articles), nil
}

// SaveJSON writes corpus metadata in the same format LoadJSON reads.
func SaveJSON(path string, articles []Article) error {
	raw := make([]jsonArticle, 0, len(articles))
	for _, a := range articles {
		raw = append(raw, jsonArticle{
			ID:          a.ID,
			Title:       a.Title,
			PublicURL:   a.URL,
			PublishDate: a.PublishedAt.Format(time.RFC1123Z),
			Summary:     a.Summary,
		})
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: encoding metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable publish date %q", s)
}
