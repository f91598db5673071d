package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/ChitDraw_Go/internal/config"
	"github.com/osse101/ChitDraw_Go/internal/database"
	"github.com/osse101/ChitDraw_Go/internal/database/memory"
	"github.com/osse101/ChitDraw_Go/internal/database/postgres"
	"github.com/osse101/ChitDraw_Go/internal/database/sqlite"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// RetryPolicy builds the transaction retry policy from configuration.
// Every re-execution is counted in metrics.
func RetryPolicy(cfg *config.Config) repository.RetryPolicy {
	return repository.RetryPolicy{
		MaxAttempts: cfg.TxMaxRetries,
		BaseDelay:   cfg.TxRetryBaseDelay,
		MaxDelay:    TxRetryMaxDelay,
		OnRetry: func(attempt int, err error) {
			metrics.TxRetries.Inc()
			slog.Debug(LogMsgTxRetry, "attempt", attempt, "error", err)
		},
	}
}

// OpenStore connects the configured backend and, when AutoMigrate is set,
// brings its schema up to date. The caller owns the returned store.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Raffle, error) {
	ctx, cancel := context.WithTimeout(ctx, StoreOpenTimeout)
	defer cancel()

	retry := RetryPolicy(cfg)

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if cfg.AutoMigrate {
			if err := database.MigratePostgres(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
			}
			slog.Info(LogMsgMigrationsApplied, "backend", cfg.StoreBackend)
		}
		slog.Info(LogMsgStoreOpened, "backend", cfg.StoreBackend, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool, retry), nil

	case config.StoreBackendSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if cfg.AutoMigrate {
			if err := database.MigrateSQLite(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
			}
			slog.Info(LogMsgMigrationsApplied, "backend", cfg.StoreBackend)
		}
		slog.Info(LogMsgStoreOpened, "backend", cfg.StoreBackend, "path", cfg.SQLitePath)
		return sqlite.NewStore(db, retry), nil

	case config.StoreBackendMemory:
		slog.Info(LogMsgStoreOpened, "backend", cfg.StoreBackend)
		return memory.NewStore(retry), nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreBackend, cfg.StoreBackend)
	}
}

// NewRaffleService builds the raffle service over store with the configured tunables
func NewRaffleService(store repository.Raffle, bus event.Bus, cfg *config.Config) raffle.Service {
	return raffle.NewService(store, bus, nil, raffle.Config{
		OperationTimeout: cfg.OperationTimeout,
		ResetBatchSize:   cfg.ResetBatchSize,
		TokenMaxAttempts: cfg.TokenMaxAttempts,
	})
}

// InitializePool creates the raffle pool from the configured admin secret.
// It is a no-op when the secret is empty or the pool already exists.
func InitializePool(ctx context.Context, svc raffle.Service, adminSecret string) error {
	if adminSecret == "" {
		slog.Warn(LogMsgPoolNotInitialized)
		return nil
	}

	if _, err := svc.Initialize(ctx, adminSecret); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedInitialize, err)
	}
	return nil
}
