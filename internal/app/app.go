package app

import (
	"context"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/cache"
	"github.com/vovakirdan/chatrelay-server/internal/cache/memory"
	rediscache "github.com/vovakirdan/chatrelay-server/internal/cache/redis"
	"github.com/vovakirdan/chatrelay-server/internal/config"
	"github.com/vovakirdan/chatrelay-server/internal/core"
	"github.com/vovakirdan/chatrelay-server/internal/service/history"
	"github.com/vovakirdan/chatrelay-server/internal/store"
	"github.com/vovakirdan/chatrelay-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/chatrelay-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	cacheCloser     io.Closer
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	var (
		c           cache.Cache
		cacheCloser io.Closer
	)
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		c = memory.New()
		logger.Info().Msg("using in-memory message cache")
	default:
		rc := rediscache.New(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			// Not fatal: history queries degrade to the durable store.
			logger.Warn().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("redis unreachable, history will fall back to store")
		} else {
			logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("redis cache connected")
		}
		cancel()
		c = rc
		cacheCloser = rc
	}

	registry := core.NewRegistry()
	engine := core.NewEngine(registry, logger)
	hist := history.NewService(c, st, logger)

	server := transporthttp.NewServer(registry, engine, hist, st, c, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		cacheCloser:     cacheCloser,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the database and cache connections.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
	if a.cacheCloser != nil {
		if err := a.cacheCloser.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close cache")
		}
	}
}
