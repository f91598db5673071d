package sse

import (
	"context"
	"sync"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/projection"
)

// Feeds is the projection source streamed to clients
type Feeds interface {
	SubscribeLeaderboard(ctx context.Context) (*projection.Subscription[domain.Leaderboard], error)
	SubscribeStatus(ctx context.Context) (*projection.Subscription[domain.StatusSnapshot], error)
}

// Subscriber bridges projection feeds and the event bus to the SSE hub
type Subscriber struct {
	hub   *Hub
	bus   event.Bus
	feeds Feeds
	wg    sync.WaitGroup
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus, feeds Feeds) *Subscriber {
	return &Subscriber{
		hub:   hub,
		bus:   bus,
		feeds: feeds,
	}
}

// Start forwards leaderboard and status snapshots until ctx ends, and relays
// rank assignments from the bus.
func (s *Subscriber) Start(ctx context.Context) error {
	s.bus.Subscribe(event.RankAssigned, s.handleRankAssigned)

	leaderboard, err := s.feeds.SubscribeLeaderboard(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgFeedSubscribeFailed, "feed", EventTypeLeaderboard, "error", err)
		return err
	}
	status, err := s.feeds.SubscribeStatus(ctx)
	if err != nil {
		leaderboard.Close()
		logger.FromContext(ctx).Error(LogMsgFeedSubscribeFailed, "feed", EventTypeStatus, "error", err)
		return err
	}

	s.wg.Add(2)
	go forward(ctx, s, EventTypeLeaderboard, leaderboard.C)
	go forward(ctx, s, EventTypeStatus, status.C)

	logger.FromContext(ctx).Info(LogMsgSubscriberStarted,
		"types", []string{EventTypeLeaderboard, EventTypeStatus, EventTypeRankAssigned})
	return nil
}

// Wait blocks until both forwarding loops have exited
func (s *Subscriber) Wait() {
	s.wg.Wait()
}

// forward ends when the subscription closes, which happens when ctx ends
func forward[T any](ctx context.Context, s *Subscriber, eventType string, snapshots <-chan T) {
	defer s.wg.Done()
	for snapshot := range snapshots {
		if !s.hub.Broadcast(eventType, snapshot) {
			logger.FromContext(ctx).Warn(LogMsgEventDropped, "type", eventType)
		}
	}
}

// handleRankAssigned relays a committed draw to SSE clients
func (s *Subscriber) handleRankAssigned(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.RankAssignedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "error", err)
		return nil
	}

	ssePayload := RankAssignedPayload{
		ParticipantID: payload.ParticipantID,
		DisplayName:   payload.DisplayName,
		Rank:          payload.Rank,
		Remaining:     payload.Remaining,
	}
	if !s.hub.Broadcast(EventTypeRankAssigned, ssePayload) {
		logger.FromContext(ctx).Warn(LogMsgEventDropped, "type", EventTypeRankAssigned)
		return nil
	}

	logger.FromContext(ctx).Debug(LogMsgEventBroadcast,
		"event_type", EventTypeRankAssigned,
		"participant_id", ssePayload.ParticipantID,
		"rank", ssePayload.Rank)
	return nil
}
