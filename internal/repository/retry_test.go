package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Microsecond, MaxDelay: time.Millisecond}

	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, policy, func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries conflicts until success", func(t *testing.T) {
		calls := 0
		var retried []int
		p := policy
		p.OnRetry = func(attempt int, err error) { retried = append(retried, attempt) }

		err := WithRetry(ctx, p, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return domain.ErrConflict
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, retried)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, policy, func(ctx context.Context) error {
			calls++
			return domain.ErrPoolExhausted
		})
		assert.ErrorIs(t, err, domain.ErrPoolExhausted)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhaustion surfaces as transient failure", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, policy, func(ctx context.Context) error {
			calls++
			return domain.ErrConflict
		})
		assert.ErrorIs(t, err, domain.ErrTransientFailure)
		assert.Equal(t, 4, calls)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		err := WithRetry(cctx, RetryPolicy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond}, func(ctx context.Context) error {
			calls++
			cancel()
			return domain.ErrConflict
		})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, calls)
	})
}

func TestRetryPolicy_BackoffIsCapped(t *testing.T) {
	p := RetryPolicy{BaseDelay: 10 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
	for attempt := 1; attempt < 30; attempt++ {
		assert.LessOrEqual(t, p.backoff(attempt), 20*time.Millisecond)
	}
	assert.Zero(t, RetryPolicy{}.backoff(3))
}
