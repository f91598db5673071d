package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// sqlTx adapts *sql.Tx to repository.Tx for SafeRollback
type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Commit(context.Context) error   { return t.tx.Commit() }
func (t sqlTx) Rollback(context.Context) error { return t.tx.Rollback() }

type raffleTx struct {
	tx    *sql.Tx
	wrote bool
}

func (t *raffleTx) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	return getPool(ctx, t.tx)
}

func (t *raffleTx) UpdatePool(ctx context.Context, pool *domain.RafflePool) error {
	ranks, err := encodeRanks(pool.AvailableRanks)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, queryUpdatePool,
		string(pool.Status), ranks, pool.UpdatedAt.UTC(), pool.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdatePool, mapError(err))
	}
	return t.checkCAS(res, ErrMsgFailedToUpdatePool)
}

func (t *raffleTx) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	return getParticipant(ctx, t.tx, queryGetParticipant, id)
}

func (t *raffleTx) UpdateParticipant(ctx context.Context, p *domain.Participant) error {
	res, err := t.tx.ExecContext(ctx, queryUpdateParticipant,
		p.DisplayName, rankValue(p.AssignedRank), p.HasParticipated, p.HasJoined,
		p.UpdatedAt.UTC(), p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateParticipant, mapError(err))
	}
	return t.checkCAS(res, ErrMsgFailedToUpdateParticipant)
}

func (t *raffleTx) DeleteParticipant(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, queryDeleteParticipant, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteParticipant, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteParticipant, err)
	}
	if n == 0 {
		return domain.ErrParticipantNotFound
	}
	t.wrote = true
	return nil
}

func (t *raffleTx) CountParticipants(ctx context.Context) (int, error) {
	return count(ctx, t.tx, queryCountParticipants)
}

func (t *raffleTx) CountAssigned(ctx context.Context) (int, error) {
	return count(ctx, t.tx, queryCountAssigned)
}

// checkCAS reports a version mismatch as a conflict
func (t *raffleTx) checkCAS(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n == 0 {
		return domain.ErrConflict
	}
	t.wrote = true
	return nil
}
