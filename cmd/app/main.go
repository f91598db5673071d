package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/bootstrap"
	"github.com/osse101/ChitDraw_Go/internal/config"
)

const shutdownTimeout = 15 * time.Second

// @title ChitDraw API
// @version 1.0
// @description Raffle service handing out unique ranks to registered participants.
// @BasePath /api/v1
// @securityDefinitions.apikey AdminCode
// @in header
// @name X-Admin-Code
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chitdraw: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.IsProduction() {
		if err := config.ValidateEnv(); err != nil {
			return err
		}
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Startup failed", "error", err)
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.Shutdown(shutdownCtx)

	return err
}
