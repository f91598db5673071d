package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/ChitDraw_Go/internal/config"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/projection"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
	"github.com/osse101/ChitDraw_Go/internal/repository"
	"github.com/osse101/ChitDraw_Go/internal/server"
	"github.com/osse101/ChitDraw_Go/internal/sse"
)

// App is the fully wired server process
type App struct {
	Server     *server.Server
	Service    raffle.Service
	Store      repository.Raffle
	Watcher    *projection.Watcher
	Hub        *sse.Hub
	Subscriber *sse.Subscriber
	Publisher  *event.ResilientPublisher

	cancel context.CancelFunc
}

// NewApp opens the store, creates the pool from configuration and starts the
// background components. The HTTP server is built but not started.
// Background loops run until Shutdown, independent of ctx.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := NewRaffleService(store, publisher, cfg)
	watcher := projection.NewWatcher(store, projection.Config{RefreshInterval: cfg.ProjectionRefreshInterval})
	RegisterEventHandlers(EventHandlerDependencies{EventBus: bus, Watcher: watcher})

	app := &App{
		Service:   svc,
		Store:     store,
		Watcher:   watcher,
		Publisher: publisher,
	}

	if err := InitializePool(ctx, svc, cfg.AdminSecret); err != nil {
		app.release(ctx)
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	app.cancel = cancel

	if err := watcher.Start(runCtx); err != nil {
		app.release(ctx)
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartWatcher, err)
	}

	app.Hub = sse.NewHub(sse.EventTypeLeaderboard, sse.EventTypeStatus)
	app.Hub.Start()

	app.Subscriber = sse.NewSubscriber(app.Hub, bus, watcher)
	if err := app.Subscriber.Start(runCtx); err != nil {
		app.release(ctx)
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartSubscriber, err)
	}

	app.Server = server.NewServer(server.Config{
		Port:                   cfg.Port,
		TrustedProxies:         cfg.TrustedProxies,
		MaxRequestBodyBytes:    cfg.MaxRequestBodyBytes,
		AdminMaxFailedAttempts: cfg.AdminMaxFailedAttempts,
		AdminLockoutWindow:     cfg.AdminLockoutWindow,
		SSEKeepaliveInterval:   cfg.SSEKeepaliveInterval,
	}, server.Dependencies{
		Raffle:    svc,
		Projector: watcher,
		Store:     store,
		Hub:       app.Hub,
	})

	return app, nil
}

// Shutdown stops the server and every background component
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:             a.Server,
		Hub:                a.Hub,
		Watcher:            a.Watcher,
		Subscriber:         a.Subscriber,
		ResilientPublisher: a.Publisher,
		Store:              a.Store,
	})
	if a.cancel != nil {
		a.cancel()
	}
}

// release undoes a partially built app
func (a *App) release(ctx context.Context) {
	a.Server = nil
	a.Shutdown(ctx)
}
