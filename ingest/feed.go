// Package ingest pulls articles from a publication feed into the corpus:
// fetch, extract, chunk, embed, and summarize.
package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/corpusai/corpuschat/corpus"
)

// rssFeed mirrors the subset of RSS 2.0 the pipeline needs.
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    string `xml:"guid"`
	PubDate string `xml:"pubDate"`
}

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339}

// FetchFeed downloads an RSS feed and returns its articles, feed order
// preserved. Items without a parseable publish date are skipped.
func FetchFeed(ctx context.Context, client *http.Client, feedURL string) ([]corpus.Article, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ingest: building feed request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: fetching feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingest: fetching feed %s: status %d", feedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading feed %s: %w", feedURL, err)
	}
	return ParseFeed(body)
}

// ParseFeed decodes RSS XML into corpus articles.
func ParseFeed(data []byte) ([]corpus.Article, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("ingest: decoding feed: %w", err)
	}

	articles := make([]corpus.Article, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		published, ok := parsePubDate(item.PubDate)
		if !ok {
			continue
		}
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		articles = append(articles, corpus.Article{
			ID:          id,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: published,
		})
	}
	return articles, nil
}

func parsePubDate(raw string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
