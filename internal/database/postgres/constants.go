package postgres

// PostgreSQL Error Codes. Serialization failures and deadlocks are lost
// write races under REPEATABLE READ and are retried.
const (
	PgErrorCodeUniqueViolation      = "23505"
	PgErrorCodeSerializationFailure = "40001"
	PgErrorCodeDeadlockDetected     = "40P01"
)

// ChangeChannel is the LISTEN/NOTIFY channel written by the raffle table triggers
const ChangeChannel = "raffle_changes"

// Queries. The pool row is the singleton id = 1.
const (
	queryGetPool = `SELECT status, available_ranks, admin_secret, version, created_at, updated_at
		FROM raffle_pool WHERE id = 1`

	queryCreatePoolIfAbsent = `INSERT INTO raffle_pool
		(id, status, available_ranks, admin_secret, version, created_at, updated_at)
		VALUES (1, $1, $2, $3, 1, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	querySetAdminSecret = `UPDATE raffle_pool
		SET admin_secret = $1, updated_at = $2, version = version + 1
		WHERE id = 1`

	queryUpdatePool = `UPDATE raffle_pool
		SET status = $1, available_ranks = $2, updated_at = $3, version = version + 1
		WHERE id = 1 AND version = $4`

	participantColumns = `id, display_name, access_token, assigned_rank, has_participated,
		has_joined, version, created_at, updated_at`

	queryInsertParticipant = `INSERT INTO participants
		(id, display_name, access_token, assigned_rank, has_participated, has_joined, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)`

	queryGetParticipant = `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	queryFindParticipantByToken = `SELECT ` + participantColumns + ` FROM participants
		WHERE access_token = $1 ORDER BY created_at, id LIMIT 1`

	queryFindParticipantByName = `SELECT ` + participantColumns + ` FROM participants
		WHERE display_name = $1 ORDER BY created_at, id LIMIT 1`

	queryListParticipants = `SELECT ` + participantColumns + ` FROM participants
		ORDER BY created_at DESC, id DESC`

	queryCountParticipants = `SELECT COUNT(*) FROM participants`

	queryCountAssigned = `SELECT COUNT(*) FROM participants
		WHERE has_participated OR assigned_rank IS NOT NULL`

	queryMarkJoined = `UPDATE participants
		SET has_joined = TRUE, updated_at = $2, version = version + 1
		WHERE id = $1 AND NOT has_joined`

	queryParticipantExists = `SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)`

	queryListAssignedIDs = `SELECT id FROM participants
		WHERE has_participated OR assigned_rank IS NOT NULL
		ORDER BY id LIMIT $1`

	queryClearAssignments = `UPDATE participants
		SET assigned_rank = NULL, has_participated = FALSE, updated_at = $2, version = version + 1
		WHERE id = ANY($1) AND (has_participated OR assigned_rank IS NOT NULL)`

	queryUpdateParticipant = `UPDATE participants
		SET display_name = $2, assigned_rank = $3, has_participated = $4, has_joined = $5,
			updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $7`

	queryDeleteParticipant = `DELETE FROM participants WHERE id = $1`

	queryListen = `LISTEN ` + ChangeChannel
)

// Error Messages
const (
	ErrMsgFailedToGetPool           = "failed to get raffle pool"
	ErrMsgFailedToCreatePool        = "failed to create raffle pool"
	ErrMsgFailedToUpdatePool        = "failed to update raffle pool"
	ErrMsgFailedToSetAdminSecret    = "failed to set admin secret"
	ErrMsgFailedToInsertParticipant = "failed to insert participant"
	ErrMsgFailedToGetParticipant    = "failed to get participant"
	ErrMsgFailedToListParticipants  = "failed to list participants"
	ErrMsgFailedToCountParticipants = "failed to count participants"
	ErrMsgFailedToMarkJoined        = "failed to mark participant joined"
	ErrMsgFailedToListAssigned      = "failed to list assigned participants"
	ErrMsgFailedToClearAssignments  = "failed to clear assignments"
	ErrMsgFailedToUpdateParticipant = "failed to update participant"
	ErrMsgFailedToDeleteParticipant = "failed to delete participant"
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToListen            = "failed to listen for raffle changes"
	ErrMsgInvalidParticipantID      = "invalid participant id"
)

// Log Messages
const (
	LogMsgNotificationListenerStopped = "Raffle change listener stopped"
)
