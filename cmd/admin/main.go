package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/ChitDraw_Go/internal/bootstrap"
	"github.com/osse101/ChitDraw_Go/internal/config"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/projection"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	registry := defaultRegistry()
	if len(args) < 1 {
		registry.PrintHelp(stderr)
		return 2
	}
	cmd, ok := registry.Get(args[0])
	if !ok {
		PrintError(stderr, "Unknown command %q", args[0])
		registry.PrintHelp(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		PrintError(stderr, "%v", err)
		return 1
	}
	if cmd.Name() == "migrate" {
		cfg.AutoMigrate = true
	}

	// Logs go to stderr so command output stays clean
	logger.InitLoggerWithWriter(
		logger.NewConfig(cfg.LogLevel, cfg.LogFormat, bootstrap.ServiceName+"-admin", cfg.Version, cfg.Environment, false),
		stderr)

	if cfg.StoreBackend == config.StoreBackendMemory {
		PrintWarning(stderr, "STORE_BACKEND=memory: changes are lost when this command exits")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		PrintError(stderr, "%v", err)
		return 1
	}
	defer store.Close()

	watcher := projection.NewWatcher(store, projection.Config{})
	defer watcher.Stop()

	env := &Env{
		Service:   bootstrap.NewRaffleService(store, nil, cfg),
		Projector: watcher,
		Backend:   cfg.StoreBackend,
		Out:       stdout,
	}

	if err := cmd.Run(ctx, env, args[1:]); err != nil {
		PrintError(stderr, "%s: %v", cmd.Name(), err)
		return 1
	}
	return 0
}

