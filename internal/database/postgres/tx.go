package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

type raffleTx struct {
	tx pgx.Tx
}

func (t *raffleTx) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	return getPool(ctx, t.tx)
}

func (t *raffleTx) UpdatePool(ctx context.Context, pool *domain.RafflePool) error {
	tag, err := t.tx.Exec(ctx, queryUpdatePool,
		string(pool.Status), ranksToInt4(pool.AvailableRanks), pool.UpdatedAt, pool.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePool, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (t *raffleTx) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	u, err := parseParticipantID(id)
	if err != nil {
		return nil, err
	}
	return getParticipant(ctx, t.tx, queryGetParticipant, u)
}

func (t *raffleTx) UpdateParticipant(ctx context.Context, p *domain.Participant) error {
	u, err := parseParticipantID(p.ID)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, queryUpdateParticipant,
		u, p.DisplayName, rankToInt4(p.AssignedRank), p.HasParticipated, p.HasJoined, p.UpdatedAt, p.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateParticipant, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (t *raffleTx) DeleteParticipant(ctx context.Context, id string) error {
	u, err := parseParticipantID(id)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, queryDeleteParticipant, u)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteParticipant, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (t *raffleTx) CountParticipants(ctx context.Context) (int, error) {
	return count(ctx, t.tx, queryCountParticipants)
}

func (t *raffleTx) CountAssigned(ctx context.Context) (int, error) {
	return count(ctx, t.tx, queryCountAssigned)
}
