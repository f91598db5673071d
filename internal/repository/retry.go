package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// RetryPolicy bounds how often a conflicting transaction is re-executed
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// OnRetry is called before each re-execution, after a conflict. Optional.
	OnRetry func(attempt int, err error)
}

// DefaultRetryPolicy returns the package defaults
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// IsConflict reports whether err is a lost compare-and-swap race
func IsConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}

// WithRetry runs attempt until it succeeds, fails with a non-conflict error, or
// the policy runs out of attempts. Exhaustion is reported as domain.ErrTransientFailure.
func WithRetry(ctx context.Context, policy RetryPolicy, attempt func(ctx context.Context) error) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = attempt(ctx)
		if lastErr == nil || !IsConflict(lastErr) {
			return lastErr
		}
		if i == maxAttempts {
			break
		}

		if policy.OnRetry != nil {
			policy.OnRetry(i, lastErr)
		}
		logger.FromContext(ctx).Debug(LogMsgRetryingTx, "attempt", i, "error", lastErr)

		timer := time.NewTimer(policy.backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	logger.FromContext(ctx).Warn(LogMsgRetriesExceeded, "attempts", maxAttempts, "error", lastErr)
	return fmt.Errorf("%w after %d attempts: %w", domain.ErrTransientFailure, maxAttempts, lastErr)
}

// backoff is exponential with full jitter
func (p RetryPolicy) backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay << min(attempt-1, 16)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return time.Duration(rand.Int64N(int64(d) + 1))
}
