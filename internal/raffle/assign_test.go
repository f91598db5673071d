package raffle

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
)

func TestAssign_ConcurrentDrawsAreDistinct(t *testing.T) {
	const n = 60
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.registerN(t, n)

	_, err := env.svc.Start(context.Background())
	require.NoError(t, err)
	permutation := slices.Clone(env.pool(t).AvailableRanks)

	ranks := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, reg := range regs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			ranks[i], errs[i] = env.svc.Assign(context.Background(), id)
		}(i, reg.Participant.ID)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "participant %d", i)
	}

	seen := make(map[int]bool, n)
	for _, r := range ranks {
		assert.False(t, seen[r], "rank %d handed out twice", r)
		seen[r] = true
		assert.Contains(t, permutation, r)
	}
	assert.Len(t, seen, n)

	pool := env.pool(t)
	assert.Empty(t, pool.AvailableRanks)
	assert.Equal(t, domain.RaffleStatusCompleted, pool.EffectiveStatus())
	assert.Equal(t, n, env.events.count(event.RankAssigned))
}

func TestAssign_SubsetOfPermutationUnderPartialLoad(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.registerN(t, 20)

	_, err := env.svc.Start(context.Background())
	require.NoError(t, err)
	before := slices.Clone(env.pool(t).AvailableRanks)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var got []int
	for _, reg := range regs[:8] {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			rank, err := env.svc.Assign(context.Background(), id)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			got = append(got, rank)
			mu.Unlock()
		}(reg.Participant.ID)
	}
	wg.Wait()

	remaining := env.pool(t).AvailableRanks
	assert.Len(t, remaining, 12)

	// handed out and remaining ranks partition the original permutation
	all := append(slices.Clone(got), remaining...)
	slices.Sort(all)
	sortedBefore := slices.Clone(before)
	slices.Sort(sortedBefore)
	assert.Equal(t, sortedBefore, all)
}

func TestAssign_TakesFromTheEndOfThePool(t *testing.T) {
	env := newTestEnv(t, nil, func(c *Config) { c.Shuffle = identityShuffle })
	env.initialize(t)
	regs := env.register(t, "Ada", "Brook", "Cy")

	_, err := env.svc.Start(context.Background())
	require.NoError(t, err)

	rank, err := env.svc.Assign(context.Background(), regs[0].Participant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rank)
	assert.Equal(t, []int{1, 2}, env.pool(t).AvailableRanks)
}

func TestAssign_SecondDrawIsRejectedWithoutSideEffects(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.register(t, "Ada", "Brook")
	ctx := context.Background()

	_, err := env.svc.Start(ctx)
	require.NoError(t, err)

	id := regs[0].Participant.ID
	first, err := env.svc.Assign(ctx, id)
	require.NoError(t, err)
	poolBefore := env.pool(t)

	_, err = env.svc.Assign(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAlreadyParticipated)

	poolAfter := env.pool(t)
	assert.Equal(t, poolBefore.AvailableRanks, poolAfter.AvailableRanks)
	assert.Equal(t, poolBefore.Version, poolAfter.Version)

	p, err := env.svc.GetParticipant(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p.AssignedRank)
	assert.Equal(t, first, *p.AssignedRank)
	assert.True(t, p.HasParticipated)
}

func TestAssign_RejectedWhileWaiting(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.register(t, "Ada")

	_, err := env.svc.Assign(context.Background(), regs[0].Participant.ID)
	assert.ErrorIs(t, err, domain.ErrRaffleNotActive)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	p, err := env.svc.GetParticipant(context.Background(), regs[0].Participant.ID)
	require.NoError(t, err)
	assert.Nil(t, p.AssignedRank)
	assert.False(t, p.HasParticipated)
}

func TestAssign_PoolExhausted(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.register(t, "Ada", "Brook")
	ctx := context.Background()

	_, err := env.svc.Start(ctx)
	require.NoError(t, err)

	// registered after start, so the pool has no rank for them
	late := env.register(t, "Latecomer")[0]

	for _, reg := range regs {
		_, err := env.svc.Assign(ctx, reg.Participant.ID)
		require.NoError(t, err)
	}

	_, err = env.svc.Assign(ctx, late.Participant.ID)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)

	// a holder asking again still hears they already drew
	_, err = env.svc.Assign(ctx, regs[0].Participant.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyParticipated)
}

func TestAssign_NotFound(t *testing.T) {
	t.Run("no pool", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.svc.Assign(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrPoolNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown participant", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.initialize(t)
		env.register(t, "Ada")
		_, err := env.svc.Start(context.Background())
		require.NoError(t, err)

		_, err = env.svc.Assign(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.svc.Assign(context.Background(), "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestScenario_ThreeParticipants(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.register(t, "A", "B", "C")
	ctx := context.Background()

	_, err := env.svc.Start(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, env.pool(t).AvailableRanks)

	a, err := env.svc.Assign(ctx, regs[0].Participant.ID)
	require.NoError(t, err)
	assert.Contains(t, []int{1, 2, 3}, a)
	assert.Len(t, env.pool(t).AvailableRanks, 2)
	assert.NotContains(t, env.pool(t).AvailableRanks, a)

	b, err := env.svc.Assign(ctx, regs[1].Participant.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := env.svc.Assign(ctx, regs[2].Participant.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, []int{a, b, c})
	assert.Empty(t, env.pool(t).AvailableRanks)

	_, err = env.svc.Assign(ctx, regs[0].Participant.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyParticipated)
}

func TestDraw_ByToken(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initialize(t)
	regs := env.register(t, "Ada", "Brook")
	ctx := context.Background()

	_, err := env.svc.Start(ctx)
	require.NoError(t, err)

	result, err := env.svc.Draw(ctx, "  "+regs[1].Token+" ")
	require.NoError(t, err)
	require.NotNil(t, result.Participant.AssignedRank)
	assert.Equal(t, result.Rank, *result.Participant.AssignedRank)
	assert.Equal(t, regs[1].Participant.ID, result.Participant.ID)
	assert.True(t, result.Participant.HasParticipated)

	_, err = env.svc.Draw(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = env.svc.Draw(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func BenchmarkAssign(b *testing.B) {
	ctx := context.Background()
	env := newTestEnv(b, nil)
	_, err := env.svc.Initialize(ctx, testAdminSecret)
	require.NoError(b, err)

	ids := make([]string, b.N)
	for i := range ids {
		ids[i] = "bench-" + strconv.Itoa(i)
		require.NoError(b, env.store.CreateParticipant(ctx, &domain.Participant{
			ID:          ids[i],
			DisplayName: ids[i],
			AccessToken: "B" + strconv.Itoa(i),
			CreatedAt:   testEpoch,
			UpdatedAt:   testEpoch,
		}))
	}
	_, err = env.svc.Start(ctx)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.svc.Assign(ctx, ids[i]); err != nil {
			b.Fatal(err)
		}
	}
}
