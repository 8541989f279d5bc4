package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hati-ai/hati-agent/internal/observability"
)

const keyPrefix = "hati:cache:"

// Cache is a redis-backed domain.ResponseCache. Best-effort: backend
// failures are logged and surface as cache misses, never as turn errors.
type Cache struct {
	client *redis.Client
}

func NewCache(addr string) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			observability.LoggerFromContext(ctx).Warn("redis cache get failed", "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		observability.LoggerFromContext(ctx).Warn("redis cache set failed", "error", err)
	}
}

// PurgeExpired is a no-op: redis evicts expired keys itself.
func (c *Cache) PurgeExpired(ctx context.Context) int {
	return 0
}

func (c *Cache) Close() error {
	return c.client.Close()
}
