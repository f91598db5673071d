package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of log files kept, including the new one
	LogFileRetentionCount = 10

	// ServiceName tags every log line
	ServiceName = "chitdraw"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting ChitDraw"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Store Configuration
// =============================================================================

const (
	// TxRetryMaxDelay caps the backoff between transaction re-executions
	TxRetryMaxDelay = 250 * time.Millisecond

	// StoreOpenTimeout bounds connecting and migrating at startup
	StoreOpenTimeout = 30 * time.Second
)

// Log and error messages for store initialization
const (
	LogMsgStoreOpened         = "Store opened"
	LogMsgMigrationsApplied   = "Migrations applied"
	LogMsgTxRetry             = "Retrying conflicting transaction"
	LogMsgPoolNotInitialized  = "Raffle pool not created: ADMIN_SECRET is empty"
	ErrMsgUnknownStoreBackend = "unknown store backend"
	ErrMsgFailedOpenStore     = "failed to open store"
	ErrMsgFailedMigrate       = "failed to run migrations"
	ErrMsgFailedInitialize    = "failed to initialize raffle pool"
)

// =============================================================================
// Event System
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgProjectionRegistered       = "Projection watcher registered"
)

// =============================================================================
// Application Messages
// =============================================================================

const (
	ErrMsgFailedStartWatcher    = "failed to start projection watcher"
	ErrMsgFailedStartSubscriber = "failed to start stream subscriber"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgClosingStore               = "Closing store..."
)
