package projection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/repository"
)

// ErrWatcherStopped is returned by subscriptions requested after Stop
var ErrWatcherStopped = errors.New(ErrMsgWatcherStopped)

// Reader is the part of the store projections are built from
type Reader interface {
	GetPool(ctx context.Context) (*domain.RafflePool, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
}

// Config tunes a Watcher
type Config struct {
	// RefreshInterval bounds staleness for stores without a change feed
	RefreshInterval time.Duration

	// Language selects the collation for unranked names
	Language language.Tag

	Now func() time.Time
}

// Watcher keeps the leaderboard and status projections current and fans them
// out to subscribers. It refreshes on store change signals, on Notify, and on
// a fixed interval.
type Watcher struct {
	reader   Reader
	interval time.Duration
	now      func() time.Time

	// refreshMu serializes store reads and guards the collator, which is not
	// safe for concurrent use
	refreshMu sync.Mutex
	collator  *collate.Collator

	leaderboard *feed[domain.Leaderboard]
	status      *feed[domain.StatusSnapshot]

	trigger chan struct{}
	cancel  context.CancelFunc
	stopped bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over reader. Call Start to begin refreshing.
func NewWatcher(reader Reader, cfg Config) *Watcher {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Watcher{
		reader:      reader,
		interval:    interval,
		now:         now,
		collator:    collate.New(cfg.Language, collate.Loose),
		leaderboard: newFeed(sameLeaderboard),
		status:      newFeed(sameStatus),
		trigger:     make(chan struct{}, 1),
	}
}

// Start loads the first snapshots and runs the refresh loop until ctx ends or
// Stop is called. Start may be called once. If the reader also implements repository.ChangeNotifier its
// signals trigger refreshes.
func (w *Watcher) Start(ctx context.Context) error {
	log := logger.FromContext(ctx)

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	if err := w.Refresh(ctx); err != nil {
		return err
	}

	var changes <-chan struct{}
	if notifier, ok := w.reader.(repository.ChangeNotifier); ok {
		ch, err := notifier.Changes(ctx)
		if err != nil {
			log.Warn(LogMsgChangeFeedUnavailable, "error", err)
		} else {
			changes = ch
		}
	}

	w.wg.Add(1)
	go w.loop(ctx, changes)

	log.Info(LogMsgWatcherStarted, "refresh_interval", w.interval, "change_feed", changes != nil)
	return nil
}

func (w *Watcher) loop(ctx context.Context, changes <-chan struct{}) {
	defer w.wg.Done()
	log := logger.FromContext(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				if ctx.Err() == nil {
					log.Warn(LogMsgChangeFeedClosed)
				}
				changes = nil
				continue
			}
		case <-w.trigger:
		case <-ticker.C:
		}

		if err := w.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Warn(LogMsgRefreshFailed, "error", err)
		}
	}
}

// Notify requests a refresh. Requests coalesce and never block.
func (w *Watcher) Notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// HandleEvent is an event.Handler that requests a refresh
func (w *Watcher) HandleEvent(_ context.Context, _ event.Event) error {
	w.Notify()
	return nil
}

// Register subscribes the watcher to every raffle event on bus
func (w *Watcher) Register(bus event.Bus) {
	event.SubscribeAll(bus, event.RaffleTypes(), w.HandleEvent)
}

// Refresh reads the store and publishes any projection that changed
func (w *Watcher) Refresh(ctx context.Context) error {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()

	pool, err := w.reader.GetPool(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPoolNotFound) {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReadPool, err)
		}
		pool = nil
	}

	participants, err := w.reader.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToListEntrants, err)
	}

	w.leaderboard.publish(BuildLeaderboard(participants, w.collator, w.now()))
	w.status.publish(BuildStatus(pool, participants))
	return nil
}

// SubscribeLeaderboard streams leaderboard snapshots until ctx ends or the
// subscription is closed. The current snapshot is delivered first.
func (w *Watcher) SubscribeLeaderboard(ctx context.Context) (*Subscription[domain.Leaderboard], error) {
	if err := w.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return w.leaderboard.subscribe(ctx), nil
}

// SubscribeStatus streams status snapshots like SubscribeLeaderboard
func (w *Watcher) SubscribeStatus(ctx context.Context) (*Subscription[domain.StatusSnapshot], error) {
	if err := w.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return w.status.subscribe(ctx), nil
}

// Leaderboard refreshes from the store and returns the current leaderboard
func (w *Watcher) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	if err := w.Refresh(ctx); err != nil {
		return domain.Leaderboard{}, err
	}
	lb, _ := w.leaderboard.latest()
	return lb, nil
}

// Status refreshes from the store and returns the current status
func (w *Watcher) Status(ctx context.Context) (domain.StatusSnapshot, error) {
	if err := w.Refresh(ctx); err != nil {
		return domain.StatusSnapshot{}, err
	}
	st, _ := w.status.latest()
	return st, nil
}

// SubscriberCount reports open subscriptions across both feeds
func (w *Watcher) SubscriberCount() int {
	return w.leaderboard.size() + w.status.size()
}

// Stop ends the refresh loop and closes every subscription
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.leaderboard.closeAll()
	w.status.closeAll()
	logger.Info(LogMsgWatcherStopped)
}

func (w *Watcher) ensureLoaded(ctx context.Context) error {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return ErrWatcherStopped
	}

	_, hasLB := w.leaderboard.latest()
	_, hasStatus := w.status.latest()
	if hasLB && hasStatus {
		return nil
	}
	return w.Refresh(ctx)
}
