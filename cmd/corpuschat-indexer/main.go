// Command corpuschat-indexer ingests a publication feed into the corpus:
// article metadata, embedded chunks, and summaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/corpusai/corpuschat/chunkstore"
	"github.com/corpusai/corpuschat/config"
	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/embedding"
	"github.com/corpusai/corpuschat/ingest"
	"github.com/corpusai/corpuschat/llm"
	"github.com/corpusai/corpuschat/log"
	"github.com/corpusai/corpuschat/splitter"
	"github.com/corpusai/corpuschat/summarize"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	feedURL := flag.String("feed", "", "feed URL (overrides config)")
	corpusPath := flag.String("corpus", "", "write corpus metadata JSON here after ingestion")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	logger := log.NewGologLogger(log.ParseLevel(cfg.LogLevel))
	log.SetDefaultLogger(logger)

	feed := cfg.Corpus.FeedURL
	if *feedURL != "" {
		feed = *feedURL
	}
	if feed == "" {
		fatal("no feed URL; set corpus.feed_url or pass -feed")
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		fatal("%v", err)
	}
	client, err := llm.NewOpenAIClient(apiKey,
		llm.WithBaseURL(cfg.OpenAI.BaseURL),
		llm.WithDefaultModel(cfg.OpenAI.ChatModel),
	)
	if err != nil {
		fatal("creating llm client: %v", err)
	}
	embedder, err := embedding.NewOpenAIEmbedder(apiKey, embedding.WithModel(cfg.OpenAI.EmbeddingModel))
	if err != nil {
		fatal("creating embedder: %v", err)
	}

	ctx := context.Background()

	articles, err := buildArticleStore(cfg)
	if err != nil {
		fatal("opening article store: %v", err)
	}
	chunks, err := buildChunkStore(ctx, cfg, embedder)
	if err != nil {
		fatal("opening chunk store: %v", err)
	}

	var cache ingest.SummaryCache
	if cfg.Redis != nil {
		redisCache := summarize.NewCache(summarize.CacheOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisCache.Close()
		cache = redisCache
	}

	pipeline := ingest.NewPipeline(ingest.PipelineOptions{
		Articles:   articles,
		Chunks:     chunks,
		Embedder:   embedder,
		Chunker:    splitter.NewMarkdownChunker(splitter.WithChunkSize(cfg.Retrieval.ChunkSize)),
		Summarizer: summarize.NewSummarizer(client, cfg.Corpus.Name, summarize.WithModel(cfg.OpenAI.ChatModel)),
		Cache:      cache,
		Logger:     logger,
	})

	ingested, err := pipeline.Run(ctx, feed)
	if err != nil {
		fatal("ingestion failed: %v", err)
	}
	logger.Info("ingested %d articles", ingested)

	if *corpusPath != "" {
		list, err := articles.List(ctx)
		if err != nil {
			fatal("listing articles: %v", err)
		}
		if err := corpus.SaveJSON(*corpusPath, list); err != nil {
			fatal("writing corpus metadata: %v", err)
		}
		logger.Info("wrote %d articles to %s", len(list), *corpusPath)
	}
}

func buildArticleStore(cfg *config.AppConfig) (corpus.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return corpus.NewSqliteStore(corpus.SqliteOptions{Path: cfg.Store.SQLite})
	default:
		return corpus.NewMemoryStore(), nil
	}
}

func buildChunkStore(ctx context.Context, cfg *config.AppConfig, embedder embedding.Embedder) (chunkstore.Store, error) {
	if cfg.ChunkStore.Type == "qdrant" && cfg.ChunkStore.Qdrant != nil {
		q := cfg.ChunkStore.Qdrant
		store := chunkstore.NewQdrantStore(chunkstore.QdrantOptions{
			URL:        q.URL,
			APIKey:     os.Getenv(q.APIKeyEnv),
			Collection: q.Collection,
		}, embedder)
		if err := store.Init(ctx, q.VectorSize); err != nil {
			return nil, err
		}
		return store, nil
	}
	return chunkstore.NewMemoryStore(embedder), nil
}

func fatal(format string, v ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}
