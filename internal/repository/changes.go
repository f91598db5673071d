package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrBroadcasterClosed is returned by Subscribe after Close
var ErrBroadcasterClosed = errors.New("change broadcaster is closed")

// Broadcaster fans a coalescing change signal out to subscribers. Stores use it
// to implement ChangeNotifier for writes committed in this process.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

// NewBroadcaster creates a broadcaster with no subscribers
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan struct{}]struct{})}
}

// Subscribe returns a channel with a single-slot buffer that is closed when ctx is done
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBroadcasterClosed
	}
	ch := make(chan struct{}, 1)
	b.subs[ch] = struct{}{}

	context.AfterFunc(ctx, func() { b.remove(ch) })
	return ch, nil
}

// Notify signals every subscriber without blocking
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close closes every subscriber channel
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Broadcaster) remove(ch chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
