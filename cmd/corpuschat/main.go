// Command corpuschat is an interactive terminal chat over an ingested
// article corpus.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/corpusai/corpuschat/chat"
	"github.com/corpusai/corpuschat/chunkstore"
	"github.com/corpusai/corpuschat/config"
	"github.com/corpusai/corpuschat/conversation"
	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/embedding"
	"github.com/corpusai/corpuschat/llm"
	"github.com/corpusai/corpuschat/log"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	corpusPath := flag.String("corpus", "", "corpus metadata JSON file to seed the article store")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	log.SetDefaultLogger(log.NewGologLogger(log.ParseLevel(cfg.LogLevel)))

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
	if *corpusPath != "" {
		if _, err := corpus.SeedFromJSON(ctx, articles, *corpusPath); err != nil {
			fatal("seeding corpus from %s: %v", *corpusPath, err)
		}
	}
	chunks := buildChunkStore(cfg, embedder)

	roster, err := corpus.LoadRoster(ctx, articles)
	if err != nil {
		fatal("loading roster: %v", err)
	}
	if roster.Len() == 0 {
		fatal("corpus is empty; run corpuschat-indexer first or pass -corpus")
	}

	engine := chat.NewEngine(client, chunks, roster, chat.PromptConfig{
		CorpusName:   cfg.Corpus.Name,
		CorpusURL:    cfg.Corpus.URL,
		ContactEmail: cfg.Corpus.ContactEmail,
		SubscribeURL: cfg.Corpus.SubscribeURL,
	},
		chat.WithModel(cfg.OpenAI.ChatModel),
		chat.WithTopK(cfg.Retrieval.TopK),
		chat.WithMaxTitles(cfg.Retrieval.MaxTitles),
	)

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s assistant", cfg.Corpus.Name)))
	fmt.Println(faintStyle.Render(fmt.Sprintf("%d articles loaded. Ask away, or type /quit to exit.", roster.Len())))

	runLoop(ctx, engine, articles)
}

func runLoop(ctx context.Context, engine *chat.Engine, articles corpus.Store) {
	conv := engine.NewConversation()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		query := strings.TrimSpace(scanner.Text())
		switch {
		case query == "":
			continue
		case query == "/quit", query == "/exit":
			return
		case query == "/new":
			conv = engine.NewConversation()
			fmt.Println(faintStyle.Render("started a new conversation"))
			continue
		case strings.HasPrefix(query, "/article "):
			printArticle(ctx, articles, strings.TrimSpace(strings.TrimPrefix(query, "/article ")))
			continue
		}

		reply, err := engine.Ask(ctx, conv, query)
		if err != nil {
			fmt.Println(errStyle.Render(fmt.Sprintf("error: %v", err)))
			continue
		}
		printReply(conv, reply)
	}
}

// printArticle shows a stored article's metadata and summary by exact title.
func printArticle(ctx context.Context, articles corpus.Store, title string) {
	a, err := articles.GetByTitle(ctx, title)
	if errors.Is(err, corpus.ErrNotFound) {
		fmt.Println(faintStyle.Render(fmt.Sprintf("no article titled %q", title)))
		return
	}
	if err != nil {
		fmt.Println(errStyle.Render(fmt.Sprintf("error: %v", err)))
		return
	}
	fmt.Println(titleStyle.Render(a.Title))
	fmt.Println(faintStyle.Render(fmt.Sprintf("%s · %s", a.PublishedAt.Format("Jan 02, 2006"), a.URL)))
	if a.Summary != "" {
		fmt.Println(a.Summary)
	}
}

// printReply writes the assistant's answer. Incremental replies print as
// fragments arrive and the accumulated text is appended to the transcript
// once the stream drains.
func printReply(conv *conversation.Conversation, reply *chat.Reply) {
	switch reply.Kind {
	case chat.ReplyComplete:
		fmt.Println(reply.Text)
	case chat.ReplyIncremental:
		for {
			fragment, ok := reply.Stream.Recv()
			if !ok {
				break
			}
			fmt.Print(fragment)
		}
		fmt.Println()
		if err := reply.Stream.Err(); err != nil {
			fmt.Println(errStyle.Render(fmt.Sprintf("stream error: %v", err)))
			return
		}
		conv.AppendAssistantText(reply.Stream.Text())
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

func buildChunkStore(cfg *config.AppConfig, embedder embedding.Embedder) chunkstore.Store {
	if cfg.ChunkStore.Type == "qdrant" && cfg.ChunkStore.Qdrant != nil {
		q := cfg.ChunkStore.Qdrant
		return chunkstore.NewQdrantStore(chunkstore.QdrantOptions{
			URL:        q.URL,
			APIKey:     os.Getenv(q.APIKeyEnv),
			Collection: q.Collection,
		}, embedder)
	}
	return chunkstore.NewMemoryStore(embedder)
}

func fatal(format string, v ...any) {
	fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
