package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Weekly</title>
    <item>
      <title>Scaling Postgres</title>
      <link>https://example.com/p/scaling-postgres</link>
      <guid>https://example.com/p/scaling-postgres</guid>
      <pubDate>Tue, 28 Apr 2026 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Undated Piece</title>
      <link>https://example.com/p/undated</link>
      <pubDate>whenever</pubDate>
    </item>
    <item>
      <title>Go Concurrency</title>
      <link>https://example.com/p/go-concurrency</link>
      <pubDate>Mon, 27 Apr 2026 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestParseFeed(t *testing.T) {
	articles, err := ParseFeed([]byte(feedFixture))
	require.NoError(t, err)

	// The undated item is skipped; feed order is preserved.
	require.Len(t, articles, 2)
	assert.Equal(t, "Scaling Postgres", articles[0].Title)
	assert.Equal(t, "https://example.com/p/scaling-postgres", articles[0].ID)
	assert.Equal(t, "https://example.com/p/scaling-postgres", articles[0].URL)
	assert.Equal(t, time.Date(2026, 4, 28, 10, 0, 0, 0, time.UTC), articles[0].PublishedAt.UTC())

	// Items without a guid fall back to the link for identity.
	assert.Equal(t, "https://example.com/p/go-concurrency", articles[1].ID)
}

func TestParseFeedInvalidXML(t *testing.T) {
	_, err := ParseFeed([]byte("not xml at all <"))
	assert.Error(t, err)
}

func TestFetchFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	articles, err := FetchFeed(context.Background(), server.Client(), server.URL)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestFetchFeedErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := FetchFeed(context.Background(), server.Client(), server.URL)
	assert.Error(t, err)
}
