package memory

import (
	"context"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// memTx buffers writes until commit. Versions carried by written records are
// the versions that were read; commit rejects the transaction if any moved.
type memTx struct {
	s *Store

	pool    *domain.RafflePool
	writes  map[string]*domain.Participant
	deletes map[string]int64

	countedMembership bool
	membership        int64
}

func newTx(s *Store) *memTx {
	return &memTx{
		s:       s,
		writes:  make(map[string]*domain.Participant),
		deletes: make(map[string]int64),
	}
}

func (t *memTx) dirty() bool {
	return t.pool != nil || len(t.writes) > 0 || len(t.deletes) > 0
}

func (t *memTx) GetPool(ctx context.Context) (*domain.RafflePool, error) {
	if t.pool != nil {
		return t.pool.Clone(), nil
	}
	return t.s.GetPool(ctx)
}

func (t *memTx) UpdatePool(ctx context.Context, pool *domain.RafflePool) error {
	t.s.mu.Lock()
	stale := t.s.pool == nil || t.s.pool.Version != pool.Version
	t.s.mu.Unlock()
	if stale {
		return domain.ErrConflict
	}
	t.pool = pool.Clone()
	return nil
}

func (t *memTx) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	if _, ok := t.deletes[id]; ok {
		return nil, domain.ErrParticipantNotFound
	}
	if p, ok := t.writes[id]; ok {
		return p.Clone(), nil
	}
	return t.s.GetParticipant(ctx, id)
}

func (t *memTx) UpdateParticipant(ctx context.Context, participant *domain.Participant) error {
	t.s.mu.Lock()
	cur, ok := t.s.participants[participant.ID]
	stale := !ok || cur.Version != participant.Version
	t.s.mu.Unlock()
	if stale {
		return domain.ErrConflict
	}
	t.writes[participant.ID] = participant.Clone()
	return nil
}

func (t *memTx) DeleteParticipant(ctx context.Context, id string) error {
	p, err := t.GetParticipant(ctx, id)
	if err != nil {
		return err
	}
	delete(t.writes, id)
	t.deletes[id] = p.Version
	return nil
}

func (t *memTx) CountParticipants(ctx context.Context) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.readMembershipLocked()
	n := len(t.s.participants)
	for id := range t.deletes {
		if _, ok := t.s.participants[id]; ok {
			n--
		}
	}
	return n, nil
}

func (t *memTx) CountAssigned(ctx context.Context) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.readMembershipLocked()
	n := 0
	for id, p := range t.s.participants {
		if _, gone := t.deletes[id]; gone {
			continue
		}
		if w, ok := t.writes[id]; ok {
			p = w
		}
		if p.HasRank() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) readMembershipLocked() {
	if !t.countedMembership {
		t.countedMembership = true
		t.membership = t.s.membership
	}
}
