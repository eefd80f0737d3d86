package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/cache"
	"github.com/vovakirdan/chatrelay-server/internal/store"
)

// Transport reads inbound frames for a single connection. Implementations
// must return an error on closure so the session's loop can exit.
type Transport interface {
	ReadMessage(ctx context.Context) ([]byte, error)
}

// Session drives one connection through its lifetime: join the room, relay
// inbound frames, and leave exactly once when the loop exits. A session is
// single-use.
type Session struct {
	room     string
	client   *Client
	registry *Registry
	engine   *Engine
	store    store.Store
	cache    cache.Cache
	log      *zerolog.Logger

	started atomic.Bool
}

// NewSession constructs a session for one client bound to one room.
func NewSession(room string, client *Client, registry *Registry, engine *Engine, st store.Store, c cache.Cache, logger *zerolog.Logger) *Session {
	return &Session{
		room:     room,
		client:   client,
		registry: registry,
		engine:   engine,
		store:    st,
		cache:    c,
		log:      logger,
	}
}

// Run joins the room and relays frames until the transport fails or the
// context is canceled. Leave is guaranteed to run on every exit path.
func (s *Session) Run(ctx context.Context, t Transport) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrSessionReused
	}

	s.registry.Join(s.room, s.client)
	defer s.registry.Leave(s.room, s.client)

	s.log.Debug().Str("room", s.room).Str("client_id", s.client.ID).Msg("client joined")
	defer s.log.Debug().Str("room", s.room).Str("client_id", s.client.ID).Msg("client left")

	for {
		payload, err := t.ReadMessage(ctx)
		if err != nil {
			return err
		}
		s.relay(ctx, payload)
	}
}

// relay broadcasts first; persistence and the cache append are best-effort
// and never stop the loop. The three steps are not transactional with each
// other.
func (s *Session) relay(ctx context.Context, payload []byte) {
	s.engine.Broadcast(s.room, payload)

	if err := s.persist(ctx, payload); err != nil {
		s.log.Warn().Err(err).Str("room", s.room).Str("client_id", s.client.ID).Msg("persist message")
	}

	if err := s.cache.PushFront(ctx, cache.Key(s.room), string(payload)); err != nil {
		s.log.Warn().Err(err).Str("room", s.room).Msg("cache message")
	}
}

func (s *Session) persist(ctx context.Context, payload []byte) error {
	rec, err := s.store.GetOrCreateRoom(ctx, s.room)
	if err != nil {
		return fmt.Errorf("get or create room: %w", err)
	}
	if _, err := s.store.AppendMessage(ctx, rec.ID, store.AnonymousSender, string(payload)); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}
