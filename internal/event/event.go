package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string         `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type           `json:"type"`
	Payload  interface{}    `json:"payload"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Raffle event types
const (
	RaffleInitialized     Type = Type(domain.EventTypeRaffleInitialized)
	RaffleStarted         Type = Type(domain.EventTypeRaffleStarted)
	RaffleReset           Type = Type(domain.EventTypeRaffleReset)
	RankAssigned          Type = Type(domain.EventTypeRankAssigned)
	ParticipantRegistered Type = Type(domain.EventTypeParticipantRegistered)
	ParticipantRemoved    Type = Type(domain.EventTypeParticipantRemoved)
	ParticipantJoined     Type = Type(domain.EventTypeParticipantJoined)
)

// RaffleTypes lists every event that changes what clients see
func RaffleTypes() []Type {
	return []Type{
		RaffleInitialized,
		RaffleStarted,
		RaffleReset,
		RankAssigned,
		ParticipantRegistered,
		ParticipantRemoved,
		ParticipantJoined,
	}
}

// Typed event payloads for type safety

// RaffleInitializedPayloadV1 is the typed payload for pool creation events
type RaffleInitializedPayloadV1 struct {
	Timestamp int64 `json:"timestamp"`
}

// RaffleStartedPayloadV1 is the typed payload for raffle start events
type RaffleStartedPayloadV1 struct {
	PoolSize  int   `json:"pool_size"`
	Timestamp int64 `json:"timestamp"`
}

// RaffleResetPayloadV1 is the typed payload for raffle reset events
type RaffleResetPayloadV1 struct {
	Batches             int   `json:"batches"`
	ParticipantsCleared int64 `json:"participants_cleared"`
	Timestamp           int64 `json:"timestamp"`
}

// RankAssignedPayloadV1 is the typed payload for a committed draw
type RankAssignedPayloadV1 struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Rank          int    `json:"rank"`
	Remaining     int    `json:"remaining"`
	Timestamp     int64  `json:"timestamp"`
}

// ParticipantPayloadV1 is shared by the participant lifecycle events
type ParticipantPayloadV1 struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewRaffleInitializedEvent creates an event for a newly created pool
func NewRaffleInitializedEvent() Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleInitialized,
		Payload: RaffleInitializedPayloadV1{Timestamp: time.Now().Unix()},
	}
}

// NewRaffleStartedEvent creates a new raffle started event
func NewRaffleStartedEvent(poolSize int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleStarted,
		Payload: RaffleStartedPayloadV1{
			PoolSize:  poolSize,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRaffleResetEvent creates a new raffle reset event
func NewRaffleResetEvent(result domain.ResetResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RaffleReset,
		Payload: RaffleResetPayloadV1{
			Batches:             result.Batches,
			ParticipantsCleared: result.ParticipantsCleared,
			Timestamp:           time.Now().Unix(),
		},
	}
}

// NewRankAssignedEvent creates a new rank assigned event
func NewRankAssignedEvent(participant *domain.Participant, rank, remaining int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RankAssigned,
		Payload: RankAssignedPayloadV1{
			ParticipantID: participant.ID,
			DisplayName:   participant.DisplayName,
			Rank:          rank,
			Remaining:     remaining,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: map[string]any{
			"participant_id": participant.ID,
		},
	}
}

// NewParticipantEvent creates a registered, joined or removed event
func NewParticipantEvent(eventType Type, participantID, displayName string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: ParticipantPayloadV1{
			ParticipantID: participantID,
			DisplayName:   displayName,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to the event type, synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to each of the given types
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
