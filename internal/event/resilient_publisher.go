package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/logger"
)

type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps a Bus so that handler failures are retried in the
// background with exponential backoff and finally written to a dead-letter file.
// It satisfies Bus itself; Publish never reports handler errors to the caller.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter file: %w", err)
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// Publish implements Bus
func (rp *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	rp.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes synchronously once and queues the event for
// background retries if any handler failed
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := rp.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	entry := retryEntry{event: event, attempts: 1, lastErr: err}

	select {
	case <-rp.shutdown:
		log.Warn(LogMsgEventDroppedShutdown, "event_type", event.Type, "error", err)
		rp.writeDeadLetter(entry)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
		log.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	default:
		log.Error(LogMsgRetryQueueFull, "event_type", event.Type, "error", err)
		rp.writeDeadLetter(entry)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// retry re-publishes one event until it succeeds or runs out of attempts.
// Backoff waits are cut short by shutdown.
func (rp *ResilientPublisher) retry(entry retryEntry) {
	log := logger.FromContext(context.Background())

	for entry.attempts <= rp.maxRetries {
		timer := time.NewTimer(CalculateRetryDelay(rp.retryDelay, entry.attempts))
		select {
		case <-timer.C:
		case <-rp.shutdown:
			timer.Stop()
		}

		err := rp.bus.Publish(context.Background(), entry.event)
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempts)
			return
		}
		entry.attempts++
		entry.lastErr = err
		log.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)

		select {
		case <-rp.shutdown:
			rp.writeDeadLetter(entry)
			return
		default:
		}
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts)
	rp.writeDeadLetter(entry)
}

// drain gives every queued event one last attempt
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				entry.attempts++
				entry.lastErr = err
				rp.writeDeadLetter(entry)
			}
		default:
			if drained > 0 {
				logger.FromContext(context.Background()).Info(LogMsgQueueDrainedShutdown, "events", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.FromContext(context.Background()).Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the worker after it drains the queue, then closes the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	if err := rp.deadLetter.Close(); err != nil {
		logger.FromContext(ctx).Error(LogMsgDeadLetterWriteFailedS, "error", err)
		return err
	}
	return nil
}
