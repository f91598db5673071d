package raffle

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/database"
	"github.com/osse101/ChitDraw_Go/internal/database/memory"
	"github.com/osse101/ChitDraw_Go/internal/database/sqlite"
	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

func TestInitialize(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	created, err := env.svc.Initialize(ctx, " "+testAdminSecret+" ")
	require.NoError(t, err)
	assert.True(t, created)

	pool := env.pool(t)
	assert.Equal(t, domain.RaffleStatusWaiting, pool.Status)
	assert.Empty(t, pool.AvailableRanks)
	assert.Equal(t, testAdminSecret, pool.AdminSecret)

	created, err = env.svc.Initialize(ctx, "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, testAdminSecret, env.pool(t).AdminSecret)
	assert.Equal(t, 1, env.events.count(event.RaffleInitialized))

	_, err = env.svc.Initialize(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStart_ProducesPermutation(t *testing.T) {
	const n = 37
	env := newTestEnv(t, nil)
	env.initialize(t)
	env.registerN(t, n)

	result, err := env.svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n, result.PoolSize)

	pool := env.pool(t)
	assert.Equal(t, domain.RaffleStatusActive, pool.Status)
	require.Len(t, pool.AvailableRanks, n)

	sorted := slices.Clone(pool.AvailableRanks)
	slices.Sort(sorted)
	assert.Equal(t, sequentialRanks(n), sorted)
	assert.Equal(t, 1, env.events.count(event.RaffleStarted))
}

func TestStart_Rejections(t *testing.T) {
	t.Run("no pool", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.svc.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrPoolNotFound)
	})

	t.Run("no participants leaves pool untouched", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.initialize(t)
		before := env.pool(t)

		_, err := env.svc.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoParticipants)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		after := env.pool(t)
		assert.Equal(t, domain.RaffleStatusWaiting, after.Status)
		assert.Empty(t, after.AvailableRanks)
		assert.Equal(t, before.Version, after.Version)
	})

	t.Run("already active", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.initialize(t)
		env.register(t, "Ada")
		_, err := env.svc.Start(context.Background())
		require.NoError(t, err)

		_, err = env.svc.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrAlreadyActive)
	})

	t.Run("completed counts as active", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.initialize(t)
		regs := env.register(t, "Ada")
		_, err := env.svc.Start(context.Background())
		require.NoError(t, err)
		_, err = env.svc.Assign(context.Background(), regs[0].Participant.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RaffleStatusCompleted, env.pool(t).EffectiveStatus())

		_, err = env.svc.Start(context.Background())
		assert.ErrorIs(t, err, domain.ErrAlreadyActive)
	})
}

func TestReset_ClearsEverything(t *testing.T) {
	env := newTestEnv(t, nil, func(c *Config) { c.ResetBatchSize = 2 })
	env.initialize(t)
	regs := env.registerN(t, 5)
	ctx := context.Background()

	_, err := env.svc.Start(ctx)
	require.NoError(t, err)
	for _, reg := range regs[:4] {
		_, err := env.svc.Assign(ctx, reg.Participant.ID)
		require.NoError(t, err)
	}

	result, err := env.svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, int64(4), result.ParticipantsCleared)

	pool := env.pool(t)
	assert.Equal(t, domain.RaffleStatusWaiting, pool.Status)
	assert.Empty(t, pool.AvailableRanks)

	participants, err := env.svc.ListParticipants(ctx)
	require.NoError(t, err)
	require.Len(t, participants, 5)
	for _, p := range participants {
		assert.Nil(t, p.AssignedRank, p.DisplayName)
		assert.False(t, p.HasParticipated, p.DisplayName)
	}
	assert.Equal(t, 1, env.events.count(event.RaffleReset))

	// a reset raffle can be started again with a fresh permutation
	started, err := env.svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, started.PoolSize)
}

func TestReset_NoPool(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.svc.Reset(context.Background())
	assert.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestReset_ResumesAfterInterruption(t *testing.T) {
	backends := map[string]func(t *testing.T) repository.Raffle{
		"memory": func(t *testing.T) repository.Raffle {
			s := memory.NewStore(testRetryPolicy)
			t.Cleanup(s.Close)
			return s
		},
		"sqlite": func(t *testing.T) repository.Raffle {
			ctx := context.Background()
			db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "raffle.db"))
			require.NoError(t, err)
			require.NoError(t, database.MigrateSQLite(ctx, db))
			s := sqlite.NewStore(db, testRetryPolicy)
			t.Cleanup(s.Close)
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			if name == "sqlite" && testing.Short() {
				t.Skip("skipping sqlite reset scenario in short mode")
			}

			const n = 520
			store := &interruptingStore{Raffle: open(t), failOnCall: 2}
			env := newTestEnv(t, store, func(c *Config) {
				c.ResetBatchSize = 100
				c.OperationTimeout = time.Minute
			})
			env.initialize(t)
			regs := env.registerN(t, n)
			ctx := context.Background()

			_, err := env.svc.Start(ctx)
			require.NoError(t, err)
			for _, reg := range regs {
				_, err := env.svc.Assign(ctx, reg.Participant.ID)
				require.NoError(t, err)
			}

			_, err = env.svc.Reset(ctx)
			require.ErrorIs(t, err, errInterrupted)

			// the pool is already closed, but ranks remain on some participants
			pool := env.pool(t)
			assert.Equal(t, domain.RaffleStatusWaiting, pool.Status)
			assert.Empty(t, pool.AvailableRanks)

			_, err = env.svc.Start(ctx)
			assert.ErrorIs(t, err, domain.ErrResetIncomplete)

			_, err = env.svc.Assign(ctx, regs[0].Participant.ID)
			assert.ErrorIs(t, err, domain.ErrRaffleNotActive)

			result, err := env.svc.Reset(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(n-100), result.ParticipantsCleared)

			remaining, err := store.ListAssignedParticipantIDs(ctx, n)
			require.NoError(t, err)
			assert.Empty(t, remaining)

			started, err := env.svc.Start(ctx)
			require.NoError(t, err)
			assert.Equal(t, n, started.PoolSize)
		})
	}
}

func TestOperationTimeout(t *testing.T) {
	mem := memory.NewStore(testRetryPolicy)
	t.Cleanup(mem.Close)
	env := newTestEnv(t, stallingStore{Raffle: mem}, func(c *Config) {
		c.OperationTimeout = 20 * time.Millisecond
	})
	env.initialize(t)

	_, err := env.svc.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = env.svc.Assign(context.Background(), "anyone")
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestCallerCancellationIsNotATimeout(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTimeout)
}
