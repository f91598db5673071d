package domain

// Event type constants used for event bus subscriptions, metrics and the SSE feed.
//
// Event types follow the pattern: <entity>.<action> (e.g., "raffle.started")
const (
	// EventTypeRaffleInitialized is published when the pool record is first created
	EventTypeRaffleInitialized = "raffle.initialized"

	// EventTypeRaffleStarted is published when a shuffled pool is generated and draws open
	EventTypeRaffleStarted = "raffle.started"

	// EventTypeRaffleReset is published after every participant has been cleared
	EventTypeRaffleReset = "raffle.reset"

	// EventTypeRankAssigned is published after an assignment transaction commits
	EventTypeRankAssigned = "raffle.rank_assigned"

	// EventTypeParticipantRegistered is published when a participant is created
	EventTypeParticipantRegistered = "participant.registered"

	// EventTypeParticipantRemoved is published when an admin deletes a participant
	EventTypeParticipantRemoved = "participant.removed"

	// EventTypeParticipantJoined is published when a participant logs in with their token
	EventTypeParticipantJoined = "participant.joined"
)
