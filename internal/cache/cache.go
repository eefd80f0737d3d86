package cache

import "context"

// Cache is the fast, non-authoritative message cache. Values are kept per key
// as an ordered list, most recently pushed first. The cache is an optimization
// for read-hot rooms: it may be rebuilt from the durable store at any time and
// callers must never depend on it for correctness.
type Cache interface {
	// Exists reports whether the key has an entry.
	Exists(ctx context.Context, key string) (bool, error)

	// PushFront prepends a value to the key's list, creating it if needed.
	PushFront(ctx context.Context, key, value string) error

	// ReadAll returns the key's full list, front (most recent) first.
	// A missing key yields an empty slice.
	ReadAll(ctx context.Context, key string) ([]string, error)

	// Drop removes the key's entry entirely. Used to discard a partially
	// written backfill so a later read falls back to the durable store.
	Drop(ctx context.Context, key string) error
}

// Key returns the cache key for a room's message list.
func Key(room string) string {
	return "messages:" + room
}
