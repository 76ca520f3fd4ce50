package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/corpusai/corpuschat/chunkstore"
	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/embedding"
	"github.com/corpusai/corpuschat/log"
	"github.com/corpusai/corpuschat/splitter"
	"github.com/corpusai/corpuschat/summarize"
)

// SummaryCache is the subset of the summary cache the pipeline needs.
type SummaryCache interface {
	Get(ctx context.Context, articleID string) (string, error)
	Put(ctx context.Context, articleID, summary string) error
}

// Pipeline ingests articles end to end: fetch the page, extract markdown,
// persist metadata, chunk and embed into the chunk store, and attach a
// summary. Articles are processed independently; one failure does not stop
// the run.
type Pipeline struct {
	httpClient *http.Client
	articles   corpus.Store
	chunks     chunkstore.Store
	embedder   embedding.Embedder
	chunker    *splitter.MarkdownChunker
	summarizer *summarize.Summarizer
	cache      SummaryCache
	logger     log.Logger
}

// PipelineOptions configuration for an ingestion pipeline
type PipelineOptions struct {
	HTTPClient *http.Client // Defaults to http.DefaultClient
	Articles   corpus.Store
	Chunks     chunkstore.Store
	Embedder   embedding.Embedder
	Chunker    *splitter.MarkdownChunker // Defaults to splitter.NewMarkdownChunker()
	Summarizer *summarize.Summarizer     // Optional; nil skips summaries
	Cache      SummaryCache              // Optional; nil always recomputes
	Logger     log.Logger
}

// NewPipeline wires an ingestion pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	p := &Pipeline{
		httpClient: opts.HTTPClient,
		articles:   opts.Articles,
		chunks:     opts.Chunks,
		embedder:   opts.Embedder,
		chunker:    opts.Chunker,
		summarizer: opts.Summarizer,
		cache:      opts.Cache,
		logger:     opts.Logger,
	}
	if p.httpClient == nil {
		p.httpClient = http.DefaultClient
	}
	if p.chunker == nil {
		p.chunker = splitter.NewMarkdownChunker()
	}
	if p.logger == nil {
		p.logger = log.GetDefaultLogger()
	}
	return p
}

// Run ingests every article in the feed. It returns the number of articles
// successfully ingested and the first feed-level error; per-article failures
// are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, feedURL string) (int, error) {
	articles, err := FetchFeed(ctx, p.httpClient, feedURL)
	if err != nil {
		return 0, err
	}
	p.logger.Info("ingest: feed %s has %d articles", feedURL, len(articles))

	ingested := 0
	for _, a := range articles {
		if err := p.IngestArticle(ctx, a); err != nil {
			p.logger.Error("ingest: %q: %v", a.Title, err)
			continue
		}
		ingested++
	}
	return ingested, nil
}

// IngestArticle processes one article through the full pipeline.
func (p *Pipeline) IngestArticle(ctx context.Context, a corpus.Article) error {
	markdown, err := p.fetchMarkdown(ctx, a.URL)
	if err != nil {
		return err
	}

	if err := p.articles.Upsert(ctx, a); err != nil {
		return fmt.Errorf("storing article: %w", err)
	}

	chunks, err := p.chunker.Split(a, markdown)
	if err != nil {
		return err
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if err := p.chunks.Upsert(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}
	p.logger.Debug("ingest: %q stored %d chunks", a.Title, len(chunks))

	return p.attachSummary(ctx, a, markdown)
}

// attachSummary resolves a summary from the cache or the summarizer and
// records it on the article. A nil summarizer leaves the summary empty.
func (p *Pipeline) attachSummary(ctx context.Context, a corpus.Article, markdown string) error {
	if p.summarizer == nil {
		return nil
	}

	var summary string
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, a.ID)
		switch {
		case err == nil:
			summary = cached
		case errors.Is(err, summarize.ErrCacheMiss):
		default:
			p.logger.Warn("ingest: summary cache unavailable: %v", err)
		}
	}

	if summary == "" {
		computed, err := p.summarizer.Summarize(ctx, a, markdown)
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}
		summary = computed
		if p.cache != nil {
			if err := p.cache.Put(ctx, a.ID, summary); err != nil {
				p.logger.Warn("ingest: caching summary: %v", err)
			}
		}
	}

	if err := p.articles.SetSummary(ctx, a.ID, summary); err != nil {
		return fmt.Errorf("recording summary: %w", err)
	}
	return nil
}

func (p *Pipeline) fetchMarkdown(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching page %s: status %d", pageURL, resp.StatusCode)
	}
	return ExtractMarkdown(resp.Body)
}
