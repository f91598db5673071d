package repository

import "time"

// =============================================================================
// Transaction Retry Defaults
// =============================================================================

const (
	// DefaultMaxAttempts is how many times a conflicting transaction body is executed
	DefaultMaxAttempts = 8

	// DefaultBaseDelay is the first backoff step between attempts
	DefaultBaseDelay = 5 * time.Millisecond

	// DefaultMaxDelay caps the exponential backoff
	DefaultMaxDelay = 250 * time.Millisecond
)

// =============================================================================
// Log Messages
// =============================================================================

const (
	LogMsgRollbackFailed  = "Failed to rollback transaction"
	LogMsgRetryingTx      = "Transaction conflict, retrying"
	LogMsgRetriesExceeded = "Transaction retries exhausted"
)
