package raffle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/accesscode"
	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// Service defines the raffle lifecycle, participant and assignment operations
type Service interface {
	// Lifecycle
	Initialize(ctx context.Context, adminSecret string) (bool, error)
	Start(ctx context.Context) (*domain.StartResult, error)
	Reset(ctx context.Context) (*domain.ResetResult, error)
	GetPool(ctx context.Context) (*domain.RafflePool, error)

	// Admin
	AuthenticateAdmin(ctx context.Context, code string) error
	SetAdminSecret(ctx context.Context, secret string) error

	// Assignment
	Assign(ctx context.Context, participantID string) (int, error)
	Draw(ctx context.Context, token string) (*domain.DrawResult, error)

	// Participants
	RegisterParticipant(ctx context.Context, displayName string) (*domain.Registration, error)
	Login(ctx context.Context, token string) (*domain.Participant, error)
	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
}

// Config carries the tunables of the service. Zero values fall back to defaults.
type Config struct {
	OperationTimeout time.Duration
	ResetBatchSize   int
	TokenMaxAttempts int

	// Shuffle permutes the ranks on Start. Defaults to CryptoShuffle.
	Shuffle Shuffler
	// Now is the clock used for record timestamps. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo     repository.Raffle
	eventBus event.Bus
	codes    accesscode.Generator

	timeout          time.Duration
	resetBatchSize   int
	tokenMaxAttempts int
	shuffle          Shuffler
	now              func() time.Time
}

// NewService creates a new raffle service
func NewService(repo repository.Raffle, eventBus event.Bus, codes accesscode.Generator, cfg Config) Service {
	s := &service{
		repo:             repo,
		eventBus:         eventBus,
		codes:            codes,
		timeout:          cfg.OperationTimeout,
		resetBatchSize:   cfg.ResetBatchSize,
		tokenMaxAttempts: cfg.TokenMaxAttempts,
		shuffle:          cfg.Shuffle,
		now:              cfg.Now,
	}
	if s.resetBatchSize <= 0 {
		s.resetBatchSize = DefaultResetBatchSize
	}
	if s.tokenMaxAttempts <= 0 {
		s.tokenMaxAttempts = DefaultTokenMaxAttempts
	}
	if s.shuffle == nil {
		s.shuffle = CryptoShuffle
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.codes == nil {
		s.codes = accesscode.NewGenerator()
	}
	return s
}

// run executes fn under the operation deadline and records its duration.
// A missed deadline is reported as domain.ErrTimeout.
func (s *service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer metrics.ObserveOperation(op, start)

	opCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := fn(opCtx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.FromContext(ctx).Warn(LogMsgOperationTimedOut, "operation", op, "timeout", s.timeout, "error", err)
		return fmt.Errorf("%w: %s: %w", domain.ErrTimeout, op, err)
	}
	return err
}

// publish sends evt on the bus. Failures are logged; the committed write stands.
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
