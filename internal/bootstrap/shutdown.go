package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/projection"
	"github.com/osse101/ChitDraw_Go/internal/repository"
	"github.com/osse101/ChitDraw_Go/internal/server"
	"github.com/osse101/ChitDraw_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Hub                *sse.Hub
	Watcher            *projection.Watcher
	Subscriber         *sse.Subscriber
	ResilientPublisher *event.ResilientPublisher
	Store              repository.Raffle
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in this order:
// 1. HTTP server (stop accepting new requests, end open streams)
// 2. Projection watcher and stream subscriber
// 3. Event publisher (flush pending events to ensure consistency)
// 4. Store
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	if components.Hub != nil {
		components.Hub.Stop()
	}

	// Stopping the watcher closes the feeds the subscriber forwards
	if components.Watcher != nil {
		components.Watcher.Stop()
	}
	if components.Subscriber != nil {
		components.Subscriber.Wait()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Store != nil {
		slog.Info(LogMsgClosingStore)
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
