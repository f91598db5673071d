package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// ErrMsgTxClosed is the text pgx and database/sql report for a finished transaction
const ErrMsgTxClosed = "tx is closed"

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Check for common "closed" errors to avoid noise
		if errors.Is(err, sql.ErrTxDone) || err.Error() == ErrMsgTxClosed {
			return
		}
		logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
	}
}
