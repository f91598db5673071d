package raffle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/ChitDraw_Go/internal/database/memory"
	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

const testAdminSecret = "letmein"

var testEpoch = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

// testRetryPolicy tolerates heavy contention from the concurrency tests
var testRetryPolicy = repository.RetryPolicy{
	MaxAttempts: 500,
	BaseDelay:   50 * time.Microsecond,
	MaxDelay:    time.Millisecond,
}

// eventRecorder captures every raffle event published on a bus
type eventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func newEventRecorder(bus event.Bus) *eventRecorder {
	r := &eventRecorder{}
	event.SubscribeAll(bus, event.RaffleTypes(), func(_ context.Context, evt event.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, evt)
		return nil
	})
	return r
}

func (r *eventRecorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *eventRecorder) count(t event.Type) int {
	n := 0
	for _, got := range r.types() {
		if got == t {
			n++
		}
	}
	return n
}

// sequenceGenerator hands out codes from a fixed list, repeating the last one
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := min(g.calls, len(g.codes)-1)
	g.calls++
	return g.codes[i], nil
}

// counterGenerator yields distinct codes forever
type counterGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *counterGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("C%05d", g.n), nil
}

type testEnv struct {
	svc    Service
	store  repository.Raffle
	bus    *event.MemoryBus
	events *eventRecorder
}

// newTestEnv wires a service over store. A nil store means a fresh memory store.
func newTestEnv(t testing.TB, store repository.Raffle, mutate ...func(*Config)) *testEnv {
	t.Helper()
	if store == nil {
		mem := memory.NewStore(testRetryPolicy)
		t.Cleanup(mem.Close)
		store = mem
	}

	cfg := Config{
		OperationTimeout: 10 * time.Second,
		ResetBatchSize:   DefaultResetBatchSize,
		TokenMaxAttempts: DefaultTokenMaxAttempts,
		Now:              func() time.Time { return testEpoch },
	}
	for _, m := range mutate {
		m(&cfg)
	}

	bus := event.NewMemoryBus()
	return &testEnv{
		svc:    NewService(store, bus, &counterGenerator{}, cfg),
		store:  store,
		bus:    bus,
		events: newEventRecorder(bus),
	}
}

func (e *testEnv) initialize(t *testing.T) {
	t.Helper()
	_, err := e.svc.Initialize(context.Background(), testAdminSecret)
	require.NoError(t, err)
}

func (e *testEnv) register(t *testing.T, names ...string) []*domain.Registration {
	t.Helper()
	regs := make([]*domain.Registration, 0, len(names))
	for _, name := range names {
		reg, err := e.svc.RegisterParticipant(context.Background(), name)
		require.NoError(t, err)
		regs = append(regs, reg)
	}
	return regs
}

func (e *testEnv) registerN(t *testing.T, n int) []*domain.Registration {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("player-%04d", i)
	}
	return e.register(t, names...)
}

func (e *testEnv) pool(t *testing.T) *domain.RafflePool {
	t.Helper()
	pool, err := e.store.GetPool(context.Background())
	require.NoError(t, err)
	return pool
}

func identityShuffle(ranks []int) error { return nil }

var errInterrupted = errors.New("connection lost")

// interruptingStore fails one ClearAssignments call, by 1-based call number
type interruptingStore struct {
	repository.Raffle
	mu         sync.Mutex
	failOnCall int
	clearCalls int
}

func (s *interruptingStore) ClearAssignments(ctx context.Context, ids []string, now time.Time) (int64, error) {
	s.mu.Lock()
	s.clearCalls++
	fail := s.clearCalls == s.failOnCall
	s.mu.Unlock()
	if fail {
		return 0, errInterrupted
	}
	return s.Raffle.ClearAssignments(ctx, ids, now)
}

// stallingStore never finishes a transaction before the context ends
type stallingStore struct {
	repository.Raffle
}

func (s stallingStore) RunInTx(ctx context.Context, _ repository.TxFunc) error {
	<-ctx.Done()
	return ctx.Err()
}
