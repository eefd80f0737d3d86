package memory

import (
	"context"
	"sync"
)

// Cache is an in-process cache.Cache implementation. It backs the server's
// no-redis mode and keeps tests free of external services.
type Cache struct {
	mu    sync.RWMutex
	lists map[string][]string
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{
		lists: make(map[string][]string),
	}
}

// Exists reports whether the key has an entry.
func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lists[key]
	return ok, nil
}

// PushFront prepends a value to the key's list, creating it if needed.
func (c *Cache) PushFront(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = append([]string{value}, c.lists[key]...)
	return nil
}

// ReadAll returns a copy of the key's list, front first.
func (c *Cache) ReadAll(_ context.Context, key string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values := make([]string, len(c.lists[key]))
	copy(values, c.lists[key])
	return values, nil
}

// Drop removes the key's entry entirely.
func (c *Cache) Drop(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, key)
	return nil
}
