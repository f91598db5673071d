package sqlite

// Queries. The pool row is the singleton id = 1.
const (
	queryGetPool = `SELECT status, available_ranks, admin_secret, version, created_at, updated_at
		FROM raffle_pool WHERE id = 1`

	queryCreatePoolIfAbsent = `INSERT INTO raffle_pool
		(id, status, available_ranks, admin_secret, version, created_at, updated_at)
		VALUES (1, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	querySetAdminSecret = `UPDATE raffle_pool
		SET admin_secret = ?, updated_at = ?, version = version + 1
		WHERE id = 1`

	queryUpdatePool = `UPDATE raffle_pool
		SET status = ?, available_ranks = ?, updated_at = ?, version = version + 1
		WHERE id = 1 AND version = ?`

	participantColumns = `id, display_name, access_token, assigned_rank, has_participated,
		has_joined, version, created_at, updated_at`

	queryInsertParticipant = `INSERT INTO participants
		(id, display_name, access_token, assigned_rank, has_participated, has_joined, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`

	queryGetParticipant = `SELECT ` + participantColumns + ` FROM participants WHERE id = ?`

	queryFindParticipantByToken = `SELECT ` + participantColumns + ` FROM participants
		WHERE access_token = ? ORDER BY created_at, id LIMIT 1`

	queryFindParticipantByName = `SELECT ` + participantColumns + ` FROM participants
		WHERE display_name = ? ORDER BY created_at, id LIMIT 1`

	queryListParticipants = `SELECT ` + participantColumns + ` FROM participants
		ORDER BY created_at DESC, id DESC`

	queryCountParticipants = `SELECT COUNT(*) FROM participants`

	queryCountAssigned = `SELECT COUNT(*) FROM participants
		WHERE has_participated = 1 OR assigned_rank IS NOT NULL`

	queryMarkJoined = `UPDATE participants
		SET has_joined = 1, updated_at = ?, version = version + 1
		WHERE id = ? AND has_joined = 0`

	queryParticipantExists = `SELECT 1 FROM participants WHERE id = ?`

	queryListAssignedIDs = `SELECT id FROM participants
		WHERE has_participated = 1 OR assigned_rank IS NOT NULL
		ORDER BY id LIMIT ?`

	queryClearAssignment = `UPDATE participants
		SET assigned_rank = NULL, has_participated = 0, updated_at = ?, version = version + 1
		WHERE id = ? AND (has_participated = 1 OR assigned_rank IS NOT NULL)`

	queryUpdateParticipant = `UPDATE participants
		SET display_name = ?, assigned_rank = ?, has_participated = ?, has_joined = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`

	queryDeleteParticipant = `DELETE FROM participants WHERE id = ?`
)

// Error Messages
const (
	ErrMsgFailedToGetPool           = "failed to get raffle pool"
	ErrMsgFailedToCreatePool        = "failed to create raffle pool"
	ErrMsgFailedToUpdatePool        = "failed to update raffle pool"
	ErrMsgFailedToSetAdminSecret    = "failed to set admin secret"
	ErrMsgFailedToEncodeRanks       = "failed to encode available ranks"
	ErrMsgFailedToDecodeRanks       = "failed to decode available ranks"
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
)
