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

// Assign pops one rank from the pool and binds it to the participant in a single
// transaction. Either both records change or neither does.
func (s *service) Assign(ctx context.Context, participantID string) (int, error) {
	var assigned *domain.Participant
	err := s.run(ctx, OpAssign, func(ctx context.Context) error {
		var err error
		assigned, err = s.assign(ctx, participantID)
		return err
	})
	if err != nil {
		metrics.RecordAssignmentFailure(err)
		return 0, err
	}
	return *assigned.AssignedRank, nil
}

// Draw resolves a participant by access token and assigns them a rank
func (s *service) Draw(ctx context.Context, token string) (*domain.DrawResult, error) {
	var result *domain.DrawResult
	err := s.run(ctx, OpDraw, func(ctx context.Context) error {
		participant, err := s.findByToken(ctx, token)
		if err != nil {
			return err
		}

		assigned, err := s.assign(ctx, participant.ID)
		if err != nil {
			return err
		}
		result = &domain.DrawResult{Rank: *assigned.AssignedRank, Participant: assigned}
		return nil
	})
	if err != nil {
		metrics.RecordAssignmentFailure(err)
		return nil, err
	}
	return result, nil
}

// assign runs the assignment transaction and publishes the outcome after commit
func (s *service) assign(ctx context.Context, participantID string) (*domain.Participant, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(participantID) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyParticipantID)
	}

	var (
		assigned  *domain.Participant
		remaining int
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		assigned, remaining = nil, 0

		pool, err := tx.GetPool(ctx)
		if err != nil {
			return err
		}
		if !pool.IsActive() {
			return domain.ErrRaffleNotActive
		}

		participant, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if participant.HasRank() {
			return domain.ErrAlreadyParticipated
		}

		rank, ok := pool.PopRank()
		if !ok {
			return domain.ErrPoolExhausted
		}

		now := s.now()
		participant.AssignRank(rank, now)
		pool.UpdatedAt = now

		if err := tx.UpdateParticipant(ctx, participant); err != nil {
			return err
		}
		if err := tx.UpdatePool(ctx, pool); err != nil {
			return err
		}

		assigned, remaining = participant, pool.PoolSize()
		return nil
	})
	if err != nil {
		log.Info(LogMsgAssignmentRejected, "participant_id", participantID, "reason", metrics.FailureReason(err), "error", err)
		return nil, err
	}

	rank := *assigned.AssignedRank
	log.Info(LogMsgRankAssigned, "participant_id", assigned.ID, "rank", rank, "remaining", remaining)
	metrics.RanksAssigned.Inc()
	metrics.PoolRemaining.Set(float64(remaining))
	s.publish(ctx, event.NewRankAssignedEvent(assigned, rank, remaining))

	return assigned, nil
}
