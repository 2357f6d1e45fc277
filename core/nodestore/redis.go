package nodestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache stored in redis, shared between hosts running the sync.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a RedisCache. The connection is established lazily.
func NewRedisCache(cfg Config) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		prefix: cfg.KeyPrefix,
	}
}

// Get returns the entry for key, or nil when the key does not exist.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return decodeCacheEntry(data)
}

// Set stores entry under key without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, entry CacheEntry) error {
	value, err := encodeCacheEntry(entry)
	if err != nil {
		return err
	}
	// Entries never expire; a timestamp mismatch invalidates them.
	if err := c.client.Set(ctx, c.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
