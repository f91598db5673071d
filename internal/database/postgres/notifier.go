package postgres

import (
	"context"
	"fmt"

	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// Changes LISTENs on ChangeChannel over a connection taken out of the pool.
// The connection is closed, and the channel with it, when ctx is done or the
// connection fails; callers fall back to polling until they subscribe again.
func (s *Store) Changes(ctx context.Context) (<-chan struct{}, error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListen, err)
	}
	pgConn := conn.Hijack()

	if _, err := pgConn.Exec(ctx, queryListen); err != nil {
		_ = pgConn.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListen, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer pgConn.Close(context.Background())

		for {
			if _, err := pgConn.WaitForNotification(ctx); err != nil {
				if ctx.Err() == nil {
					logger.FromContext(ctx).Warn(LogMsgNotificationListenerStopped, "error", err)
				}
				return
			}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}
