package memory

// Error Messages
const (
	ErrMsgParticipantExists = "participant already exists"
	ErrMsgStoreClosed       = "store is closed"
)
