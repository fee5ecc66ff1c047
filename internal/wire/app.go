package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/promptlab/promptlab/internal/adapter/memory"
	"github.com/promptlab/promptlab/internal/config"
	porteventbus "github.com/promptlab/promptlab/internal/port/eventbus"

	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"

	"github.com/promptlab/promptlab/internal/transport"
	mcptransport "github.com/promptlab/promptlab/internal/transport/mcp"
	wshandler "github.com/promptlab/promptlab/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Config        config.Config
	Server        *http.Server
	Store         *memory.Store
	Bus           *memory.EventBus
	Cache         *memory.Cache
	PromptSvc     *promptsvc.Service
	CollectionSvc *collectionsvc.Service
	MCPServer     *mcptransport.Server
	Hub           *wshandler.Hub

	subs []porteventbus.Subscription
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config, version string) (*App, error) {
	// ── Adapters ─────────────────────────────────────────────────────────────
	store := memory.NewStore()
	bus := memory.NewEventBus(cfg.Events.Buffer)
	cache := memory.NewCache()

	// ── Services ─────────────────────────────────────────────────────────────
	promptSvc := promptsvc.NewService(store, bus)
	collectionSvc := collectionsvc.NewService(store, bus)

	app := &App{
		Config:        cfg,
		Store:         store,
		Bus:           bus,
		Cache:         cache,
		PromptSvc:     promptSvc,
		CollectionSvc: collectionSvc,
	}

	// ── Event fan-out ─────────────────────────────────────────────────────────
	// Subscriptions live until Close, not until the signal context ends.
	subCtx := context.WithoutCancel(ctx)
	hub := wshandler.NewHub()
	app.Hub = hub
	sub, err := hub.Attach(subCtx, bus)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("attach websocket hub: %w", err)
	}
	app.subs = append(app.subs, sub)

	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		reg := mcptransport.NewSessionRegistry()
		app.MCPServer = mcptransport.New(reg, version, promptSvc, collectionSvc)
		sub, err := reg.Attach(subCtx, bus)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("attach mcp sessions: %w", err)
		}
		app.subs = append(app.subs, sub)
		mcpHandler = app.MCPServer.Handler()
	}

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(cfg, version, promptSvc, collectionSvc, hub, mcpHandler, cache)

	app.Server = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	slog.Info("application wired", "addr", app.Server.Addr, "mcp", cfg.MCP.Enabled)
	return app, nil
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// the server down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP + MCP server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return runSweeper(gctx, a.Cache, a.Config.Idempotency.TTL)
	})

	return g.Wait()
}

// Close detaches subscribers and stops the event bus.
func (a *App) Close() {
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	a.Bus.Close()
}
