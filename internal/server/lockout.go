package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// counter is mutated in place so an LRU entry keeps the expiry of its first Add
type counter struct {
	n int
}

// windowCounter counts events per key in a fixed window that starts at the
// key's first event. Keys beyond the capacity evict the least recently used.
type windowCounter struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *counter]
}

func newWindowCounter(size int, window time.Duration) *windowCounter {
	return &windowCounter{
		lru: expirable.NewLRU[string, *counter](size, nil, window),
	}
}

// incr bumps the key and returns the new count
func (w *windowCounter) incr(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.lru.Get(key)
	if !ok {
		c = &counter{}
		w.lru.Add(key, c)
	}
	c.n++
	return c.n
}

func (w *windowCounter) get(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.lru.Get(key); ok {
		return c.n
	}
	return 0
}

func (w *windowCounter) reset(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lru.Remove(key)
}

// AdminLockout refuses admin requests from a client that sent too many wrong
// codes. The lock lifts once the window that started with the first failure ends.
type AdminLockout struct {
	failures    *windowCounter
	maxFailures int
}

// NewAdminLockout creates a lockout allowing maxFailures bad codes per window
func NewAdminLockout(maxFailures int, window time.Duration) *AdminLockout {
	if maxFailures <= 0 {
		maxFailures = DefaultAdminMaxFailedAttempts
	}
	if window <= 0 {
		window = DefaultAdminLockoutWindow
	}
	return &AdminLockout{
		failures:    newWindowCounter(TrackedClients, window),
		maxFailures: maxFailures,
	}
}

// Locked reports whether ip has used up its attempts
func (l *AdminLockout) Locked(ip string) bool {
	return l.failures.get(ip) >= l.maxFailures
}

// RecordFailure counts a rejected code and reports whether ip is now locked
func (l *AdminLockout) RecordFailure(ip string) bool {
	n := l.failures.incr(ip)
	if n == l.maxFailures {
		slog.Warn(SecurityAlertLockout, "ip", ip, "failures", n)
	}
	return n >= l.maxFailures
}

// RecordSuccess clears the failures of ip
func (l *AdminLockout) RecordSuccess(ip string) {
	l.failures.reset(ip)
}
