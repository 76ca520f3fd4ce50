package summarize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no summary is cached for an article.
var ErrCacheMiss = errors.New("summarize: cache miss")

// Cache stores computed summaries in Redis so re-ingesting an unchanged
// article skips the model calls.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// CacheOptions configuration for the Redis summary cache
type CacheOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "corpuschat:"
	TTL      time.Duration // Expiration for summaries, default 0 (no expiration)
}

// NewCache creates a Redis-backed summary cache.
func NewCache(opts CacheOptions) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "corpuschat:"
	}

	return &Cache{client: client, prefix: prefix, ttl: opts.TTL}
}

func (c *Cache) key(articleID string) string {
	return fmt.Sprintf("%ssummary:%s", c.prefix, articleID)
}

// Get returns the cached summary for an article or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, articleID string) (string, error) {
	summary, err := c.client.Get(ctx, c.key(articleID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("summarize: cache get for %s: %w", articleID, err)
	}
	return summary, nil
}

// Put stores a summary for an article.
func (c *Cache) Put(ctx context.Context, articleID, summary string) error {
	if err := c.client.Set(ctx, c.key(articleID), summary, c.ttl).Err(); err != nil {
		return fmt.Errorf("summarize: cache put for %s: %w", articleID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
