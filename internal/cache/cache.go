package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/novadev/novaauto-scraper/internal/models"
	"github.com/redis/go-redis/v9"
)

// Cache stores recent scrape results in Redis so repeated endpoint
// hits within the TTL do not re-hit the dealer site. A nil *Cache is a
// valid no-op cache. Entries expire; nothing is stored durably.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

// Key builds the cache key for a scrape of url.
func Key(url string) string {
	return "scrape:" + url
}

// Get returns the cached result for key, or false on a miss. Redis
// errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, key string) (*models.ScrapeResult, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var result models.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return nil, false
	}

	return &result, true
}

// Set stores result under key for the configured TTL. Failures are
// logged and otherwise ignored.
func (c *Cache) Set(ctx context.Context, key string, result *models.ScrapeResult) {
	if c == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}
