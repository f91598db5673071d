package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// parseParticipantID parses an id; anything that is not a uuid cannot exist
func parseParticipantID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", ErrMsgInvalidParticipantID, domain.ErrParticipantNotFound)
	}
	return u, nil
}

// mapError turns lost write races into domain.ErrConflict so RunInTx retries them
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case PgErrorCodeSerializationFailure, PgErrorCodeDeadlockDetected, PgErrorCodeUniqueViolation:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}

func ranksToInt4(ranks []int) []int32 {
	out := make([]int32, len(ranks))
	for i, r := range ranks {
		out[i] = int32(r)
	}
	return out
}

func ranksFromInt4(ranks []int32) []int {
	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = int(r)
	}
	return out
}

// rankToInt4 converts an optional rank to a nullable int4
func rankToInt4(rank *int) pgtype.Int4 {
	if rank == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*rank), Valid: true}
}

// ptrInt converts a pgtype.Int4 to *int.
// Returns nil if the int is not valid.
func ptrInt(i pgtype.Int4) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int32)
	return &v
}

type queryer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPool(ctx context.Context, q queryer) (*domain.RafflePool, error) {
	var (
		pool   domain.RafflePool
		status string
		ranks  []int32
	)
	err := q.QueryRow(ctx, queryGetPool).Scan(
		&status, &ranks, &pool.AdminSecret, &pool.Version, &pool.CreatedAt, &pool.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, mapError(err))
	}
	pool.Status = domain.RaffleStatus(status)
	pool.AvailableRanks = ranksFromInt4(ranks)
	return &pool, nil
}

func getParticipant(ctx context.Context, q queryer, query string, arg any) (*domain.Participant, error) {
	p, err := scanParticipant(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipant, mapError(err))
	}
	return p, nil
}

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	var (
		p    domain.Participant
		id   uuid.UUID
		rank pgtype.Int4
	)
	err := row.Scan(&id, &p.DisplayName, &p.AccessToken, &rank, &p.HasParticipated,
		&p.HasJoined, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	p.AssignedRank = ptrInt(rank)
	return &p, nil
}

func count(ctx context.Context, q queryer, query string) (int, error) {
	var n int64
	if err := q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountParticipants, mapError(err))
	}
	return int(n), nil
}
