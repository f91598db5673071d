package config

import "time"

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendSQLite   = "sqlite"
	StoreBackendMemory   = "memory"
)

// Environments
const (
	EnvironmentDev        = "dev"
	EnvironmentStaging    = "staging"
	EnvironmentProduction = "production"
)

// Defaults
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvironmentDev
	DefaultVersion     = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"

	DefaultDBName            = "chitdraw"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxConns        = 10
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = time.Hour
	DefaultSQLitePath        = "data/chitdraw.db"

	DefaultOperationTimeout = 10 * time.Second
	DefaultTxMaxRetries     = 8
	DefaultTxRetryBaseDelay = 5 * time.Millisecond
	// DefaultResetBatchSize matches the write limit of a single document-store batch
	DefaultResetBatchSize   = 500
	DefaultTokenMaxAttempts = 10

	DefaultProjectionRefreshInterval = 2 * time.Second
	DefaultSSEKeepaliveInterval      = 30 * time.Second
	DefaultAdminMaxFailedAttempts    = 5
	DefaultAdminLockoutWindow        = 5 * time.Minute
	DefaultMaxRequestBodyBytes       = 1 << 20
)

// Error messages
const (
	ErrMsgInvalidConfig = "invalid configuration"
)
