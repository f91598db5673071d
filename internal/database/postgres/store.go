// Package postgres implements repository.Raffle on PostgreSQL.
// Transactions run at REPEATABLE READ and every write is a version
// compare-and-swap, so lost races surface as domain.ErrConflict and are retried.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// Store is a pgx-backed raffle repository
type Store struct {
	db    *pgxpool.Pool
	retry repository.RetryPolicy
}

// NewStore creates a store over an open pool. Close closes the pool.
func NewStore(db *pgxpool.Pool, retry repository.RetryPolicy) *Store {
	return &Store{db: db, retry: retry}
}

var (
	_ repository.Raffle         = (*Store)(nil)
	_ repository.ChangeNotifier = (*Store)(nil)
)

func (s *Store) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	return getPool(ctx, s.db)
}

func (s *Store) CreatePoolIfAbsent(ctx context.Context, pool *domain.RafflePool) (bool, error) {
	tag, err := s.db.Exec(ctx, queryCreatePoolIfAbsent,
		string(pool.Status), ranksToInt4(pool.AvailableRanks), pool.AdminSecret, pool.CreatedAt, pool.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, mapError(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SetAdminSecret(ctx context.Context, secret string, now time.Time) error {
	tag, err := s.db.Exec(ctx, querySetAdminSecret, secret, now)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetAdminSecret, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPoolNotFound
	}
	return nil
}

func (s *Store) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidParticipantID, err)
	}
	_, err = s.db.Exec(ctx, queryInsertParticipant,
		id, p.DisplayName, p.AccessToken, rankToInt4(p.AssignedRank), p.HasParticipated, p.HasJoined,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertParticipant, mapError(err))
	}
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	u, err := parseParticipantID(id)
	if err != nil {
		return nil, err
	}
	return getParticipant(ctx, s.db, queryGetParticipant, u)
}

func (s *Store) FindParticipantByToken(ctx context.Context, token string) (*domain.Participant, error) {
	return getParticipant(ctx, s.db, queryFindParticipantByToken, token)
}

func (s *Store) FindParticipantByName(ctx context.Context, name string) (*domain.Participant, error) {
	return getParticipant(ctx, s.db, queryFindParticipantByName, name)
}

// ListParticipants returns all participants, newest first
func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	rows, err := s.db.Query(ctx, queryListParticipants)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListParticipants, err)
	}
	defer rows.Close()

	out := make([]domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListParticipants, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListParticipants, err)
	}
	return out, nil
}

func (s *Store) CountParticipants(ctx context.Context) (int, error) {
	return count(ctx, s.db, queryCountParticipants)
}

func (s *Store) MarkJoined(ctx context.Context, id string, now time.Time) error {
	u, err := parseParticipantID(id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, queryMarkJoined, u, now)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkJoined, mapError(err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx, queryParticipantExists, u).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkJoined, err)
	}
	if !exists {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (s *Store) ListAssignedParticipantIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.Query(ctx, queryListAssignedIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
		}
		ids = append(ids, id.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	return ids, nil
}

// ClearAssignments clears every listed rank in one statement
func (s *Store) ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error) {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			uuids = append(uuids, u)
		}
	}
	if len(uuids) == 0 {
		return 0, nil
	}

	tag, err := s.db.Exec(ctx, queryClearAssignments, uuids, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToClearAssignments, mapError(err))
	}
	return tag.RowsAffected(), nil
}

// RunInTx executes fn in a REPEATABLE READ transaction, retrying lost races
func (s *Store) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	return repository.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, mapError(err))
		}
		defer SafeRollback(ctx, tx)

		if err := fn(ctx, &raffleTx{tx: tx}); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, mapError(err))
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}
