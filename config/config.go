// Package config loads application configuration from a YAML file, with
// environment variables supplying secrets.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for the OpenAI-compatible API used
// for chat completions and embeddings. The key itself comes from the
// environment, never the file.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// CorpusConfig describes the publication the assistant speaks for.
type CorpusConfig struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	FeedURL      string `yaml:"feed_url"`
	ContactEmail string `yaml:"contact_email"`
	SubscribeURL string `yaml:"subscribe_url"`
}

// StoreConfig selects the article store backend.
type StoreConfig struct {
	Type   string `yaml:"type"` // "memory" or "sqlite"
	SQLite string `yaml:"sqlite_path,omitempty"`
}

// ChunkStoreConfig selects the chunk store backend.
type ChunkStoreConfig struct {
	Type   string        `yaml:"type"` // "memory" or "qdrant"
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant chunk store.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Collection string `yaml:"collection"`
	VectorSize int    `yaml:"vector_size"`
}

// RedisConfig contains connection details for the summary cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RetrievalConfig tunes the retrieval protocol.
type RetrievalConfig struct {
	TopK      int `yaml:"top_k"`
	MaxTitles int `yaml:"max_titles"`
	ChunkSize int `yaml:"chunk_size"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Store      StoreConfig      `yaml:"store"`
	ChunkStore ChunkStoreConfig `yaml:"chunk_store"`
	Redis      *RedisConfig     `yaml:"redis,omitempty"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	LogLevel   string           `yaml:"log_level"`
}

// Load reads a config from the given path. If the file does not exist,
// defaults are returned.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// APIKey resolves the OpenAI API key from the configured environment
// variable.
func (c *AppConfig) APIKey() (string, error) {
	key := os.Getenv(c.OpenAI.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("config: %s is not set", c.OpenAI.APIKeyEnv)
	}
	return key, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.SQLite == "" {
		cfg.Store.SQLite = "corpuschat.db"
	}
	if cfg.ChunkStore.Type == "" {
		cfg.ChunkStore.Type = "memory"
	}
	if cfg.ChunkStore.Type == "qdrant" && cfg.ChunkStore.Qdrant != nil {
		if cfg.ChunkStore.Qdrant.Collection == "" {
			cfg.ChunkStore.Qdrant.Collection = "article_chunks"
		}
		if cfg.ChunkStore.Qdrant.VectorSize == 0 {
			cfg.ChunkStore.Qdrant.VectorSize = 1536
		}
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 7
	}
	if cfg.Retrieval.MaxTitles == 0 {
		cfg.Retrieval.MaxTitles = 3
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 1000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
