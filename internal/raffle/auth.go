package raffle

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
)

// AuthenticateAdmin checks code against the stored admin secret
func (s *service) AuthenticateAdmin(ctx context.Context, code string) error {
	return s.run(ctx, OpAuthenticate, func(ctx context.Context) error {
		pool, err := s.repo.GetPool(ctx)
		if err != nil {
			return err
		}

		given := strings.TrimSpace(code)
		if pool.AdminSecret == "" || given == "" ||
			subtle.ConstantTimeCompare([]byte(given), []byte(pool.AdminSecret)) != 1 {
			metrics.AdminAuthFailures.Inc()
			logger.FromContext(ctx).Warn(LogMsgAdminAuthFailed)
			return domain.ErrUnauthorized
		}
		return nil
	})
}

// SetAdminSecret rotates the admin secret. Callers authenticate first.
func (s *service) SetAdminSecret(ctx context.Context, secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyAdminSecret)
	}

	err := s.run(ctx, OpSetAdminSecret, func(ctx context.Context) error {
		if err := s.repo.SetAdminSecret(ctx, trimmed, s.now()); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToSetSecret, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgAdminSecretRotated)
	return nil
}
