package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(repository.RetryPolicy{MaxAttempts: 3})
	t.Cleanup(s.Close)
	return s
}

func addParticipant(t *testing.T, s *Store, id, name string, offset time.Duration) {
	t.Helper()
	require.NoError(t, s.CreateParticipant(context.Background(), &domain.Participant{
		ID:          id,
		DisplayName: name,
		AccessToken: "T" + id,
		CreatedAt:   epoch.Add(offset),
		UpdatedAt:   epoch.Add(offset),
	}))
}

func TestCreatePoolIfAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetPool(ctx)
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)

	created, err := s.CreatePoolIfAbsent(ctx, domain.NewRafflePool("secret", epoch))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.CreatePoolIfAbsent(ctx, domain.NewRafflePool("other", epoch))
	require.NoError(t, err)
	assert.False(t, created)

	pool, err := s.GetPool(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", pool.AdminSecret)
	assert.Equal(t, domain.RaffleStatusWaiting, pool.Status)
}

func TestGetPool_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	pool := domain.NewRafflePool("secret", epoch)
	pool.AvailableRanks = []int{1, 2, 3}
	_, err := s.CreatePoolIfAbsent(ctx, pool)
	require.NoError(t, err)

	got, err := s.GetPool(ctx)
	require.NoError(t, err)
	got.AvailableRanks[0] = 99

	again, err := s.GetPool(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, again.AvailableRanks)
}

func TestListParticipants_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	addParticipant(t, s, "a", "Alice", 0)
	addParticipant(t, s, "b", "Bob", time.Minute)
	addParticipant(t, s, "c", "Cara", 2*time.Minute)

	list, err := s.ListParticipants(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "a", list[2].ID)
}

func TestFindParticipant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addParticipant(t, s, "a", "Alice", 0)

	p, err := s.FindParticipantByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID)

	p, err = s.FindParticipantByToken(ctx, "Ta")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID)

	_, err = s.FindParticipantByName(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunInTx_StaleParticipantWriteConflicts(t *testing.T) {
	s := NewStore(repository.RetryPolicy{MaxAttempts: 1})
	defer s.Close()
	ctx := context.Background()
	addParticipant(t, s, "a", "Alice", 0)

	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		p, err := tx.GetParticipant(ctx, "a")
		if err != nil {
			return err
		}
		// a concurrent writer commits between our read and our write
		require.NoError(t, s.MarkJoined(ctx, "a", epoch))
		p.AssignRank(1, epoch)
		return tx.UpdateParticipant(ctx, p)
	})
	assert.ErrorIs(t, err, domain.ErrTransientFailure)
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := s.GetParticipant(ctx, "a")
	require.NoError(t, err)
	assert.False(t, p.HasRank(), "a failed transaction must leave no trace")
}

func TestRunInTx_RetriesFromFreshRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addParticipant(t, s, "a", "Alice", 0)

	attempts := 0
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		attempts++
		p, err := tx.GetParticipant(ctx, "a")
		if err != nil {
			return err
		}
		if attempts == 1 {
			require.NoError(t, s.MarkJoined(ctx, "a", epoch))
		}
		p.AssignRank(7, epoch)
		return tx.UpdateParticipant(ctx, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	p, err := s.GetParticipant(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, p.AssignedRank)
	assert.Equal(t, 7, *p.AssignedRank)
	assert.True(t, p.HasJoined)
}

func TestRunInTx_CountsConflictWithRegistration(t *testing.T) {
	s := NewStore(repository.RetryPolicy{MaxAttempts: 1})
	defer s.Close()
	ctx := context.Background()
	_, err := s.CreatePoolIfAbsent(ctx, domain.NewRafflePool("secret", epoch))
	require.NoError(t, err)
	addParticipant(t, s, "a", "Alice", 0)

	err = s.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		n, err := tx.CountParticipants(ctx)
		if err != nil {
			return err
		}
		addParticipant(t, s, "b", "Bob", time.Second)
		pool, err := tx.GetPool(ctx)
		if err != nil {
			return err
		}
		pool.AvailableRanks = make([]int, n)
		return tx.UpdatePool(ctx, pool)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRunInTx_BodyErrorDiscardsWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addParticipant(t, s, "a", "Alice", 0)
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		require.NoError(t, tx.DeleteParticipant(ctx, "a"))
		_, err := tx.GetParticipant(ctx, "a")
		require.ErrorIs(t, err, domain.ErrParticipantNotFound)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetParticipant(ctx, "a")
	assert.NoError(t, err)
}

func TestClearAssignments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		addParticipant(t, s, id, id, time.Duration(i)*time.Second)
	}
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.RaffleTx) error {
		for i, id := range []string{"a", "c"} {
			p, err := tx.GetParticipant(ctx, id)
			if err != nil {
				return err
			}
			p.AssignRank(i+1, epoch)
			if err := tx.UpdateParticipant(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	ids, err := s.ListAssignedParticipantIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	ids, err = s.ListAssignedParticipantIDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	n, err := s.ClearAssignments(ctx, append(ids, "b", "missing"), epoch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ids, err = s.ListAssignedParticipantIDs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestChanges(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Changes(ctx)
	require.NoError(t, err)

	addParticipant(t, s, "a", "Alice", 0)
	addParticipant(t, s, "b", "Bob", 0)

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}

	// signals coalesce into the single buffered slot
	select {
	case <-ch:
		t.Fatal("expected signals to coalesce")
	default:
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close with its context")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
