// Package history answers room history queries with a cache-first read path:
// a populated cache entry serves the request directly; otherwise the durable
// store is queried and its result backfilled into the cache.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/cache"
	"github.com/vovakirdan/chatrelay-server/internal/store"
)

// Source identifies which branch of the read path served a request.
type Source int

const (
	// SourceStore means the durable store served the request.
	SourceStore Source = iota
	// SourceCache means the fast cache served the request.
	SourceCache
)

// Entry is one history record. On the cache path the sender and timestamp are
// synthesized (the cache stores content only), so callers needing exact
// provenance must treat cache-served responses as best-effort.
type Entry struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Service implements the history retrieval policy over a cache and a store.
type Service struct {
	cache cache.Cache
	store store.MessageStore
	log   *zerolog.Logger

	now func() time.Time
}

// NewService constructs a history service.
func NewService(c cache.Cache, st store.MessageStore, logger *zerolog.Logger) *Service {
	return &Service{
		cache: c,
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

// History returns the room's messages, newest first. An empty room yields an
// empty slice, never an error.
func (s *Service) History(ctx context.Context, room string) ([]Entry, error) {
	entries, _, err := s.history(ctx, room)
	return entries, err
}

// history is the tagged two-branch read path behind History.
func (s *Service) history(ctx context.Context, room string) ([]Entry, Source, error) {
	key := cache.Key(room)

	if values, ok := s.fromCache(ctx, key); ok {
		now := s.now()
		entries := make([]Entry, 0, len(values))
		for _, content := range values {
			entries = append(entries, Entry{
				Sender:    store.AnonymousSender,
				Message:   content,
				Timestamp: now,
			})
		}
		return entries, SourceCache, nil
	}

	messages, err := s.store.MessagesByRoom(ctx, room)
	if err != nil {
		return nil, SourceStore, fmt.Errorf("query history: %w", err)
	}

	entries := make([]Entry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, Entry{
			Sender:    msg.Sender,
			Message:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}

	s.backfill(ctx, key, messages)

	return entries, SourceStore, nil
}

// fromCache reads the room's cached list. Any cache failure counts as a miss:
// the cache is an optimization, never a dependency for correctness.
func (s *Service) fromCache(ctx context.Context, key string) ([]string, bool) {
	ok, err := s.cache.Exists(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache exists check failed, falling back to store")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	values, err := s.cache.ReadAll(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		return nil, false
	}
	return values, true
}

// backfill writes store-sourced messages into the cache. Each PushFront
// prepends, so pushing oldest first leaves the list newest-first, matching
// the order live traffic produces. A failed push discards the partial entry
// so the next read falls back to the store instead of seeing a truncated
// history.
func (s *Service) backfill(ctx context.Context, key string, messages []*store.Message) {
	for i := len(messages) - 1; i >= 0; i-- {
		if err := s.cache.PushFront(ctx, key, messages[i].Content); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("history backfill failed")
			if dropErr := s.cache.Drop(ctx, key); dropErr != nil {
				s.log.Warn().Err(dropErr).Str("key", key).Msg("discard partial backfill failed")
			}
			return
		}
	}
}
