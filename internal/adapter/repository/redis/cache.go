package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/econsim/clearing/internal/usecase"
)

// Cache implements usecase.Cache using Redis. The HTTP read side caches
// book snapshots here so busy dashboards do not hammer the engine.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: "clearing:",
	}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.prefix+key).Result()
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

var _ usecase.Cache = (*Cache)(nil)
