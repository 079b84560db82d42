package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCachePrefix = "pokeapi-cache"

// ResponseCache stores JSON-encoded upstream responses.
// Key format: <prefix>:<key>
type ResponseCache struct {
	client *redis.Client
	prefix string
}

// NewResponseCache creates a ResponseCache. An empty prefix falls back to
// defaultCachePrefix.
func NewResponseCache(client *redis.Client, prefix string) *ResponseCache {
	if prefix == "" {
		prefix = defaultCachePrefix
	}
	return &ResponseCache{client: client, prefix: prefix}
}

// Get decodes a cached value into dst. A miss returns false and no error.
func (c *ResponseCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if isNil(err) {
			return false, nil
		}
		return false, unavailable("cache get", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value as JSON and stores it for ttl.
func (c *ResponseCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return unavailable("cache set", err)
	}
	return nil
}

func (c *ResponseCache) key(key string) string {
	return c.prefix + ":" + key
}
