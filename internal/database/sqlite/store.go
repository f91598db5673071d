// Package sqlite implements repository.Raffle on an embedded SQLite file.
// Transactions start with BEGIN IMMEDIATE, so a transaction holds the write
// lock for its whole body; version CAS still guards writers in other processes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a SQLite-backed raffle repository
type Store struct {
	db      *sql.DB
	retry   repository.RetryPolicy
	changes *repository.Broadcaster
}

// NewStore wraps an open database; see database.OpenSQLite
func NewStore(db *sql.DB, retry repository.RetryPolicy) *Store {
	return &Store{db: db, retry: retry, changes: repository.NewBroadcaster()}
}

var (
	_ repository.Raffle         = (*Store)(nil)
	_ repository.ChangeNotifier = (*Store)(nil)
)

func (s *Store) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	return getPool(ctx, s.db)
}

func (s *Store) CreatePoolIfAbsent(ctx context.Context, pool *domain.RafflePool) (bool, error) {
	ranks, err := encodeRanks(pool.AvailableRanks)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, queryCreatePoolIfAbsent,
		string(pool.Status), ranks, pool.AdminSecret, pool.CreatedAt.UTC(), pool.UpdatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if n > 0 {
		s.changes.Notify()
	}
	return n > 0, nil
}

func (s *Store) SetAdminSecret(ctx context.Context, secret string, now time.Time) error {
	res, err := s.db.ExecContext(ctx, querySetAdminSecret, secret, now.UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetAdminSecret, mapError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPoolNotFound
	}
	s.changes.Notify()
	return nil
}

func (s *Store) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	_, err := s.db.ExecContext(ctx, queryInsertParticipant,
		p.ID, p.DisplayName, p.AccessToken, rankValue(p.AssignedRank), p.HasParticipated, p.HasJoined,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertParticipant, mapError(err))
	}
	s.changes.Notify()
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	return getParticipant(ctx, s.db, queryGetParticipant, id)
}

func (s *Store) FindParticipantByToken(ctx context.Context, token string) (*domain.Participant, error) {
	return getParticipant(ctx, s.db, queryFindParticipantByToken, token)
}

func (s *Store) FindParticipantByName(ctx context.Context, name string) (*domain.Participant, error) {
	return getParticipant(ctx, s.db, queryFindParticipantByName, name)
}

// ListParticipants returns all participants, newest first
func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	rows, err := s.db.QueryContext(ctx, queryListParticipants)
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
	res, err := s.db.ExecContext(ctx, queryMarkJoined, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkJoined, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkJoined, err)
	}
	if n > 0 {
		s.changes.Notify()
		return nil
	}

	var one int
	if err := s.db.QueryRowContext(ctx, queryParticipantExists, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrParticipantNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkJoined, err)
	}
	return nil
}

func (s *Store) ListAssignedParticipantIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, queryListAssignedIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListAssigned, err)
	}
	return ids, nil
}

// ClearAssignments clears the listed ranks in a single transaction
func (s *Store) ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, mapError(err))
	}
	defer repository.SafeRollback(ctx, sqlTx{tx})

	var cleared int64
	for _, id := range ids {
		res, err := tx.ExecContext(ctx, queryClearAssignment, now.UTC(), id)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", ErrMsgFailedToClearAssignments, mapError(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", ErrMsgFailedToClearAssignments, err)
		}
		cleared += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, mapError(err))
	}
	if cleared > 0 {
		s.changes.Notify()
	}
	return cleared, nil
}

// RunInTx runs fn inside BEGIN IMMEDIATE, retrying when the database is busy
// or a version check fails
func (s *Store) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	return repository.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, mapError(err))
		}
		defer repository.SafeRollback(ctx, sqlTx{tx})

		stx := &raffleTx{tx: tx}
		if err := fn(ctx, stx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, mapError(err))
		}
		if stx.wrote {
			s.changes.Notify()
		}
		return nil
	})
}

// Changes signals after writes committed through this Store. Writes from other
// processes are only seen by polling.
func (s *Store) Changes(ctx context.Context) (<-chan struct{}, error) {
	return s.changes.Subscribe(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	s.changes.Close()
	if err := s.db.Close(); err != nil {
		logger.FromContext(context.Background()).Error("Failed to close sqlite database", "error", err)
	}
}

// ---- helpers shared with raffleTx ----

func getPool(ctx context.Context, q queryer) (*domain.RafflePool, error) {
	var (
		pool   domain.RafflePool
		status string
		ranks  string
	)
	err := q.QueryRowContext(ctx, queryGetPool).Scan(
		&status, &ranks, &pool.AdminSecret, &pool.Version, &pool.CreatedAt, &pool.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPool, mapError(err))
	}
	pool.Status = domain.RaffleStatus(status)
	if err := json.Unmarshal([]byte(ranks), &pool.AvailableRanks); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeRanks, err)
	}
	if pool.AvailableRanks == nil {
		pool.AvailableRanks = []int{}
	}
	return &pool, nil
}

func getParticipant(ctx context.Context, q queryer, query string, arg any) (*domain.Participant, error) {
	p, err := scanParticipant(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipant, mapError(err))
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row scanner) (*domain.Participant, error) {
	var (
		p    domain.Participant
		rank sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.DisplayName, &p.AccessToken, &rank, &p.HasParticipated,
		&p.HasJoined, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rank.Valid {
		r := int(rank.Int64)
		p.AssignedRank = &r
	}
	return &p, nil
}

func count(ctx context.Context, q queryer, query string) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountParticipants, mapError(err))
	}
	return n, nil
}

func encodeRanks(ranks []int) (string, error) {
	if ranks == nil {
		ranks = []int{}
	}
	b, err := json.Marshal(ranks)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToEncodeRanks, err)
	}
	return string(b), nil
}

func rankValue(rank *int) any {
	if rank == nil {
		return nil
	}
	return int64(*rank)
}

// mapError turns lock contention and rank uniqueness violations into domain.ErrConflict
func mapError(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(se.Code() == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}
