package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// DefaultKeepaliveInterval is how often to send keepalive pings when none is configured
	DefaultKeepaliveInterval = 15 * time.Second

	// QueryParamTypes selects event types, comma separated
	QueryParamTypes = "types"
)

// Event types for SSE
const (
	// EventTypeLeaderboard carries a full leaderboard snapshot
	EventTypeLeaderboard = "leaderboard"

	// EventTypeStatus carries the waiting-room status snapshot
	EventTypeStatus = "status"

	// EventTypeRankAssigned is sent once per committed draw, for reveal animations
	EventTypeRankAssigned = "rank_assigned"

	// EventTypeConnected is the first event on every stream
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected     = "SSE client connected"
	LogMsgClientDisconnected  = "SSE client disconnected"
	LogMsgEventBroadcast      = "Broadcasting SSE event"
	LogMsgEventDropped        = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError          = "Failed to write SSE event"
	LogMsgStreamingNotSupport = "Response writer does not support streaming"
	LogMsgInvalidPayload      = "Invalid rank assigned event payload"
	LogMsgFeedSubscribeFailed = "Failed to subscribe to projection feed"
	LogMsgSubscriberStarted   = "SSE subscriber started"
)

// ErrMsgStreamingUnsupported is returned to clients whose connection cannot stream
const ErrMsgStreamingUnsupported = "SSE not supported"
