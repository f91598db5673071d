package metrics

import (
	"context"

	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all raffle events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, event.RaffleTypes(), e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	// Counters the service records itself are not touched here; the pool
	// gauge is idempotent and is refreshed from events published elsewhere.
	switch evt.Type {
	case event.RankAssigned:
		payload, err := event.DecodePayload[event.RankAssignedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		PoolRemaining.Set(float64(payload.Remaining))

	case event.RaffleStarted:
		payload, err := event.DecodePayload[event.RaffleStartedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		PoolRemaining.Set(float64(payload.PoolSize))

	case event.RaffleReset:
		PoolRemaining.Set(0)

	case event.ParticipantJoined:
		ParticipantsJoined.Inc()

	case event.ParticipantRemoved:
		ParticipantsRemoved.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
