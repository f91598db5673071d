package raffle

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// Initialize creates the waiting pool if it does not exist yet.
// It reports whether a pool was created.
func (s *service) Initialize(ctx context.Context, adminSecret string) (bool, error) {
	secret := strings.TrimSpace(adminSecret)
	if secret == "" {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyAdminSecret)
	}

	var created bool
	err := s.run(ctx, OpInitialize, func(ctx context.Context) error {
		var err error
		created, err = s.repo.CreatePoolIfAbsent(ctx, domain.NewRafflePool(secret, s.now()))
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCreatePool, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log := logger.FromContext(ctx)
	if !created {
		log.Info(LogMsgPoolAlreadyExists)
		return false, nil
	}
	log.Info(LogMsgPoolInitialized)
	s.publish(ctx, event.NewRaffleInitializedEvent())
	return true, nil
}

// Start fills the pool with a random permutation of 1..N, N being the number of
// registered participants, and opens draws.
func (s *service) Start(ctx context.Context) (*domain.StartResult, error) {
	var poolSize int
	err := s.run(ctx, OpStart, func(ctx context.Context) error {
		return s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
			poolSize = 0

			pool, err := tx.GetPool(ctx)
			if err != nil {
				return err
			}
			if pool.IsActive() {
				return domain.ErrAlreadyActive
			}

			count, err := tx.CountParticipants(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToCountParticipants, err)
			}
			if count == 0 {
				return domain.ErrNoParticipants
			}

			assigned, err := tx.CountAssigned(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToCountParticipants, err)
			}
			if assigned > 0 {
				return domain.ErrResetIncomplete
			}

			ranks := sequentialRanks(count)
			if err := s.shuffle(ranks); err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToShuffle, err)
			}

			pool.Status = domain.RaffleStatusActive
			pool.AvailableRanks = ranks
			pool.UpdatedAt = s.now()
			if err := tx.UpdatePool(ctx, pool); err != nil {
				return err
			}

			poolSize = count
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRaffleStarted, "pool_size", poolSize)
	metrics.RafflesStarted.Inc()
	metrics.PoolRemaining.Set(float64(poolSize))
	s.publish(ctx, event.NewRaffleStartedEvent(poolSize))

	return &domain.StartResult{PoolSize: poolSize}, nil
}

// Reset closes draws, empties the pool, then clears every participant's rank
// in batches. Batches commit independently; calling Reset again after an
// interruption finishes the job.
func (s *service) Reset(ctx context.Context) (*domain.ResetResult, error) {
	log := logger.FromContext(ctx)
	result := &domain.ResetResult{}

	err := s.run(ctx, OpReset, func(ctx context.Context) error {
		err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
			pool, err := tx.GetPool(ctx)
			if err != nil {
				return err
			}
			pool.Status = domain.RaffleStatusWaiting
			pool.AvailableRanks = []int{}
			pool.UpdatedAt = s.now()
			return tx.UpdatePool(ctx, pool)
		})
		if err != nil {
			return err
		}
		log.Info(LogMsgRaffleResetStarted, "batch_size", s.resetBatchSize)
		metrics.PoolRemaining.Set(0)

		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			ids, err := s.repo.ListAssignedParticipantIDs(ctx, s.resetBatchSize)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToListAssigned, err)
			}
			if len(ids) == 0 {
				return nil
			}

			cleared, err := s.repo.ClearAssignments(ctx, ids, s.now())
			if err != nil {
				return fmt.Errorf("%s %d: %w", ErrContextFailedToClearBatch, result.Batches+1, err)
			}
			result.Batches++
			result.ParticipantsCleared += cleared
			metrics.ResetBatches.Inc()
			log.Debug(LogMsgResetBatchCleared, "batch", result.Batches, "cleared", cleared)
		}
	})
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgRaffleResetComplete, "batches", result.Batches, "cleared", result.ParticipantsCleared)
	metrics.RafflesReset.Inc()
	s.publish(ctx, event.NewRaffleResetEvent(*result))

	return result, nil
}

// GetPool returns the current pool record
func (s *service) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	var pool *domain.RafflePool
	err := s.run(ctx, OpGetPool, func(ctx context.Context) error {
		var err error
		pool, err = s.repo.GetPool(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
