package raffle

// ============================================================================
// Operation Names
// ============================================================================

// Operation labels used for timeouts, logs and the operation duration histogram
const (
	OpInitialize     = "initialize"
	OpStart          = "start"
	OpReset          = "reset"
	OpAssign         = "assign"
	OpDraw           = "draw"
	OpRegister       = "register"
	OpLogin          = "login"
	OpDelete         = "delete_participant"
	OpAuthenticate   = "authenticate_admin"
	OpSetAdminSecret = "set_admin_secret"
	OpGetPool        = "get_pool"
	OpGetParticipant = "get_participant"
	OpList           = "list_participants"
)

// ============================================================================
// Defaults
// ============================================================================

// Defaults applied by NewService when the Config leaves a field zero
const (
	DefaultResetBatchSize   = 500
	DefaultTokenMaxAttempts = 10
)

// ============================================================================
// Error Context Messages
// ============================================================================

const (
	ErrContextFailedToCreatePool        = "failed to create raffle pool"
	ErrContextFailedToCountParticipants = "failed to count participants"
	ErrContextFailedToShuffle           = "failed to shuffle ranks"
	ErrContextFailedToListAssigned      = "failed to list assigned participants"
	ErrContextFailedToClearBatch        = "failed to clear reset batch"
	ErrContextFailedToCheckName         = "failed to check display name"
	ErrContextFailedToCheckToken        = "failed to check access token"
	ErrContextFailedToGenerateToken     = "failed to generate access token"
	ErrContextFailedToCreateParticipant = "failed to create participant"
	ErrContextFailedToMarkJoined        = "failed to mark participant joined"
	ErrContextFailedToSetSecret         = "failed to set admin secret"
)

// Input validation messages
const (
	ErrMsgEmptyAdminSecret   = "admin secret must not be empty"
	ErrMsgDisplayNameLength  = "display name must be between 1 and %d characters"
	ErrMsgEmptyAccessToken   = "access token must not be empty"
	ErrMsgEmptyParticipantID = "participant id must not be empty"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPoolInitialized       = "Raffle pool initialized"
	LogMsgPoolAlreadyExists     = "Raffle pool already exists, skipping initialization"
	LogMsgRaffleStarted         = "Raffle started"
	LogMsgRaffleResetStarted    = "Raffle reset started"
	LogMsgResetBatchCleared     = "Reset batch cleared"
	LogMsgRaffleResetComplete   = "Raffle reset complete"
	LogMsgRankAssigned          = "Rank assigned"
	LogMsgAssignmentRejected    = "Assignment rejected"
	LogMsgParticipantRegistered = "Participant registered"
	LogMsgParticipantJoined     = "Participant joined"
	LogMsgParticipantDeleted    = "Participant deleted"
	LogMsgAdminAuthFailed       = "Admin authentication failed"
	LogMsgAdminSecretRotated    = "Admin secret rotated"
	LogMsgPublishFailed         = "Failed to publish event"
	LogMsgOperationTimedOut     = "Operation timed out"
)
