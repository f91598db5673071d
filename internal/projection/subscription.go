package projection

import (
	"context"
	"sync"
)

// Subscription delivers snapshots of T on C. Only the latest undelivered
// snapshot is kept: a slow reader skips intermediate values and never
// stalls the watcher. C is closed once the subscription ends.
type Subscription[T any] struct {
	C <-chan T

	ch          chan T
	mu          sync.Mutex
	closed      bool
	once        sync.Once
	stopAfter   func() bool
	unsubscribe func()
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		stop := s.stopAfter
		s.mu.Unlock()
		if stop != nil {
			stop()
		}
		if s.unsubscribe != nil {
			s.unsubscribe()
		}

		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}

// offer replaces any pending snapshot with v
func (s *Subscription[T]) offer(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

// feed holds the latest value of one projection and its subscribers
type feed[T any] struct {
	mu      sync.Mutex
	current T
	has     bool
	subs    map[*Subscription[T]]struct{}
	same    func(a, b T) bool
}

func newFeed[T any](same func(a, b T) bool) *feed[T] {
	return &feed[T]{
		subs: make(map[*Subscription[T]]struct{}),
		same: same,
	}
}

// publish stores v and fans it out. Unchanged values are dropped; the
// return value reports whether v was sent.
func (f *feed[T]) publish(v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.has && f.same(f.current, v) {
		return false
	}
	f.current = v
	f.has = true

	for sub := range f.subs {
		sub.offer(v)
	}
	return true
}

func (f *feed[T]) latest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.has
}

// subscribe registers a subscription that ends with ctx. The current value,
// if any, is queued immediately.
func (f *feed[T]) subscribe(ctx context.Context) *Subscription[T] {
	ch := make(chan T, 1)
	sub := &Subscription[T]{C: ch, ch: ch}
	sub.unsubscribe = func() {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	}

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	if f.has {
		sub.offer(f.current)
	}
	f.mu.Unlock()

	stop := context.AfterFunc(ctx, sub.Close)
	sub.mu.Lock()
	sub.stopAfter = stop
	sub.mu.Unlock()
	return sub
}

func (f *feed[T]) closeAll() {
	f.mu.Lock()
	subs := make([]*Subscription[T], 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (f *feed[T]) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
