package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/cache"
	"github.com/vovakirdan/chatrelay-server/internal/config"
	"github.com/vovakirdan/chatrelay-server/internal/core"
	"github.com/vovakirdan/chatrelay-server/internal/store"
)

// WSHandler upgrades HTTP connections and bridges them to core sessions.
type WSHandler struct {
	registry *core.Registry
	engine   *core.Engine
	store    store.Store
	cache    cache.Cache
	cfg      *config.Config
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, engine *core.Engine, st store.Store, c cache.Cache, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		engine:   engine,
		store:    st,
		cache:    c,
		cfg:      cfg,
		log:      logger,
	}
}

// Serve binds the connection to the room named in the URL for its lifetime.
// GET /ws/:room
func (h *WSHandler) Serve(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString(), "", h.cfg.OutboxSize)
	session := core.NewSession(room, client, h.registry, h.engine, h.store, h.cache, h.log)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	limiter := newRateLimiter(h.cfg.MessageRateLimit)
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	errCh := make(chan error, 2)
	go func() {
		errCh <- session.Run(ctx, &wsTransport{conn: conn, limiter: limiter, log: h.log})
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "internal error"
			h.log.Warn().Err(err).Str("room", room).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case payload := <-client.Outbox:
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				h.log.Warn().Err(err).Str("client_id", client.ID).Msg("write ws payload")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// wsTransport adapts a websocket connection to core.Transport. Frames over
// the rate limit are dropped, not fatal to the connection.
type wsTransport struct {
	conn    *websocket.Conn
	limiter *rateLimiter
	log     *zerolog.Logger
}

func (t *wsTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	for {
		_, data, err := t.conn.Read(ctx)
		if err != nil {
			return nil, err
		}
		if !t.limiter.allow() {
			t.log.Warn().Msg("inbound rate limit exceeded, dropping frame")
			continue
		}
		return data, nil
	}
}
