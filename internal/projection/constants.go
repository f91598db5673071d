package projection

import "time"

// DefaultRefreshInterval is used when no interval is configured
const DefaultRefreshInterval = 2 * time.Second

// Log messages
const (
	LogMsgWatcherStarted        = "Projection watcher started"
	LogMsgWatcherStopped        = "Projection watcher stopped"
	LogMsgRefreshFailed         = "Failed to refresh projections"
	LogMsgChangeFeedUnavailable = "Store change feed unavailable, relying on periodic refresh"
	LogMsgChangeFeedClosed      = "Store change feed closed, relying on periodic refresh"
)

// Error messages
const (
	ErrMsgWatcherStopped       = "projection watcher stopped"
	ErrMsgFailedToReadPool     = "failed to read raffle pool"
	ErrMsgFailedToListEntrants = "failed to list participants"
)
