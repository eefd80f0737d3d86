package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Cache implements cache.Cache on top of Redis lists.
type Cache struct {
	rdb *redis.Client
}

// New creates a Redis-backed cache client for the given address.
// The connection is established lazily; use Ping to verify reachability.
func New(addr string) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Ping verifies the Redis server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Exists reports whether the key has an entry.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

// PushFront prepends a value to the key's list.
func (c *Cache) PushFront(ctx context.Context, key, value string) error {
	if err := c.rdb.LPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

// ReadAll returns the key's full list, front first.
func (c *Cache) ReadAll(ctx context.Context, key string) ([]string, error) {
	values, err := c.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return values, nil
}

// Drop removes the key's entry entirely.
func (c *Cache) Drop(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
