// Package memory is an in-process implementation of repository.Raffle.
// Transactions read committed records, buffer their writes and validate
// every version they touched at commit time.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

var errStoreClosed = errors.New(ErrMsgStoreClosed)

// Store is safe for concurrent use
type Store struct {
	mu           sync.Mutex
	pool         *domain.RafflePool
	participants map[string]*domain.Participant
	// membership changes on create, delete and any rank change; transactions
	// that counted participants validate it at commit
	membership int64
	changes    *repository.Broadcaster
	closed     bool

	retry repository.RetryPolicy
}

// NewStore creates an empty store
func NewStore(retry repository.RetryPolicy) *Store {
	return &Store{
		participants: make(map[string]*domain.Participant),
		changes:      repository.NewBroadcaster(),
		retry:        retry,
	}
}

var (
	_ repository.Raffle         = (*Store)(nil)
	_ repository.ChangeNotifier = (*Store)(nil)
)

func (s *Store) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		return nil, domain.ErrPoolNotFound
	}
	return s.pool.Clone(), nil
}

func (s *Store) CreatePoolIfAbsent(ctx context.Context, pool *domain.RafflePool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errStoreClosed
	}
	if s.pool != nil {
		return false, nil
	}
	p := pool.Clone()
	p.Version = 1
	s.pool = p
	s.notifyLocked()
	return true, nil
}

func (s *Store) SetAdminSecret(ctx context.Context, secret string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		return domain.ErrPoolNotFound
	}
	p := s.pool.Clone()
	p.AdminSecret = secret
	p.UpdatedAt = now
	p.Version++
	s.pool = p
	s.notifyLocked()
	return nil
}

func (s *Store) CreateParticipant(ctx context.Context, participant *domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	if _, ok := s.participants[participant.ID]; ok {
		return fmt.Errorf("%s: %s", ErrMsgParticipantExists, participant.ID)
	}
	p := participant.Clone()
	p.Version = 1
	s.participants[p.ID] = p
	s.membership++
	s.notifyLocked()
	return nil
}

func (s *Store) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return p.Clone(), nil
}

func (s *Store) FindParticipantByToken(ctx context.Context, token string) (*domain.Participant, error) {
	return s.findFirst(func(p *domain.Participant) bool { return p.AccessToken == token })
}

func (s *Store) FindParticipantByName(ctx context.Context, name string) (*domain.Participant, error) {
	return s.findFirst(func(p *domain.Participant) bool { return p.DisplayName == name })
}

// findFirst returns the oldest match so duplicates from a registration race resolve deterministically
func (s *Store) findFirst(match func(*domain.Participant) bool) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *domain.Participant
	for _, p := range s.participants {
		if !match(p) {
			continue
		}
		if found == nil || compareOldestFirst(p, found) < 0 {
			found = p
		}
	}
	if found == nil {
		return nil, domain.ErrParticipantNotFound
	}
	return found.Clone(), nil
}

// ListParticipants returns all participants, newest first
func (s *Store) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, *p.Clone())
	}
	slices.SortFunc(out, func(a, b domain.Participant) int {
		return compareOldestFirst(&b, &a)
	})
	return out, nil
}

func (s *Store) CountParticipants(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants), nil
}

func (s *Store) MarkJoined(ctx context.Context, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	if cur.HasJoined {
		return nil
	}
	p := cur.Clone()
	p.HasJoined = true
	p.UpdatedAt = now
	p.Version++
	s.participants[id] = p
	s.notifyLocked()
	return nil
}

// ListAssignedParticipantIDs returns up to limit ids of participants holding a rank, in id order
func (s *Store) ListAssignedParticipantIDs(ctx context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0)
	for id, p := range s.participants {
		if p.HasRank() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ClearAssignments clears the rank of every listed participant in one step
func (s *Store) ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var cleared int64
	for _, id := range ids {
		cur, ok := s.participants[id]
		if !ok || !cur.HasRank() {
			continue
		}
		p := cur.Clone()
		p.ClearRank(now)
		p.Version++
		s.participants[id] = p
		cleared++
	}
	if cleared > 0 {
		s.membership++
		s.notifyLocked()
	}
	return cleared, nil
}

// RunInTx executes fn against a fresh snapshot, retrying on commit conflicts
func (s *Store) RunInTx(ctx context.Context, fn repository.TxFunc) error {
	return repository.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		tx := newTx(s)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.commit(tx)
	})
}

func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}

	if tx.countedMembership && tx.membership != s.membership {
		return domain.ErrConflict
	}
	if tx.pool != nil {
		if s.pool == nil || s.pool.Version != tx.pool.Version {
			return domain.ErrConflict
		}
	}
	for id, p := range tx.writes {
		cur, ok := s.participants[id]
		if !ok || cur.Version != p.Version {
			return domain.ErrConflict
		}
	}
	for id, version := range tx.deletes {
		cur, ok := s.participants[id]
		if !ok || cur.Version != version {
			return domain.ErrConflict
		}
	}

	if !tx.dirty() {
		return nil
	}

	if tx.pool != nil {
		p := tx.pool.Clone()
		p.Version++
		s.pool = p
	}
	membershipChanged := len(tx.deletes) > 0
	for id, p := range tx.writes {
		if rankChanged(s.participants[id], p) {
			membershipChanged = true
		}
		next := p.Clone()
		next.Version++
		s.participants[id] = next
	}
	for id := range tx.deletes {
		delete(s.participants, id)
	}
	if membershipChanged {
		s.membership++
	}
	s.notifyLocked()
	return nil
}

// Changes returns a channel signalled after every committed write
func (s *Store) Changes(ctx context.Context) (<-chan struct{}, error) {
	return s.changes.Subscribe(ctx)
}

func (s *Store) notifyLocked() {
	s.changes.Notify()
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStoreClosed
	}
	return nil
}

// Close rejects further writes and closes every change channel
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.changes.Close()
}

func compareOldestFirst(a, b *domain.Participant) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func rankChanged(before, after *domain.Participant) bool {
	if before == nil {
		return true
	}
	if before.HasParticipated != after.HasParticipated {
		return true
	}
	if (before.AssignedRank == nil) != (after.AssignedRank == nil) {
		return true
	}
	return before.AssignedRank != nil && *before.AssignedRank != *after.AssignedRank
}
