package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatrelay-server/internal/cache/memory"
	"github.com/vovakirdan/chatrelay-server/internal/config"
	"github.com/vovakirdan/chatrelay-server/internal/core"
	"github.com/vovakirdan/chatrelay-server/internal/service/history"
	"github.com/vovakirdan/chatrelay-server/internal/store"
	"github.com/vovakirdan/chatrelay-server/internal/store/sqlite"
)

// startTestServer wires an in-memory store and cache behind a real router.
func startTestServer(t *testing.T) (*httptest.Server, store.Store, *memory.Cache) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mc := memory.New()

	logger := zerolog.New(nil)
	registry := core.NewRegistry()
	engine := core.NewEngine(registry, &logger)
	hist := history.NewService(mc, st, &logger)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.CacheBackend = config.CacheBackendMemory

	server := NewServer(registry, engine, hist, st, mc, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st, mc
}
