package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Parameter error messages
	ErrMsgMissingPathParam = "Missing %s path parameter"
	ErrMsgInvalidLimit     = "limit must be a non-negative integer"

	// Projection error messages
	ErrMsgGetLeaderboardFailed = "Failed to retrieve leaderboard"
	ErrMsgGetStatusFailed      = "Failed to retrieve raffle status"
)

// Success messages
const (
	MsgParticipantDeleted = "Participant removed"
	MsgSecretUpdated      = "Admin secret updated"
)

// Log messages
const (
	LogMsgDrawFailed         = "Draw failed"
	LogMsgDrawSucceeded      = "Draw succeeded"
	LogMsgLoginFailed        = "Participant login failed"
	LogMsgRegisterFailed     = "Failed to register participant"
	LogMsgParticipantCreated = "Participant registered"
	LogMsgListFailed         = "Failed to list participants"
	LogMsgDeleteFailed       = "Failed to delete participant"
	LogMsgStartFailed        = "Failed to start raffle"
	LogMsgResetFailed        = "Failed to reset raffle"
	LogMsgGetPoolFailed      = "Failed to read raffle pool"
	LogMsgSetSecretFailed    = "Failed to update admin secret"
	LogMsgReadinessFailed    = "Readiness check failed"
	LogMsgEncodeFailed       = "Failed to encode JSON response"
	LogMsgWriteBufferFailed  = "Failed to write response buffer"
)
