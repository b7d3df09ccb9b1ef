package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/novadev/novaauto-scraper/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "scrape:https://novaautoland.com", Key("https://novaautoland.com"))
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *Cache

	result, hit := c.Get(context.Background(), "scrape:x")
	assert.False(t, hit)
	assert.Nil(t, result)

	// Must not panic.
	c.Set(context.Background(), "scrape:x", models.NewScrapeResult(nil))
}

func TestUnreachableRedisDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := New(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, hit := c.Get(context.Background(), Key("https://novaautoland.com"))
	assert.False(t, hit)
	assert.Nil(t, result)

	// Set must swallow the connection error.
	c.Set(context.Background(), Key("https://novaautoland.com"), models.NewScrapeResult(nil))
}
