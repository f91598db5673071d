package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, so all we can do is log
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteBufferFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and answers with the mapped status
func respondServiceError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	statusCode, userMsg := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if statusCode >= http.StatusInternalServerError {
		log.Error(logMsg, "error", err, "status", statusCode)
	} else {
		log.Warn(logMsg, "error", err, "status", statusCode)
	}

	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgResourceNotFoundErr = "Resource not found."
	ErrMsgUnavailableError    = "Server is busy. Please try again."
	ErrMsgTimeoutError        = "The request took too long. Please try again."

	// Auth messages
	ErrMsgUnauthorizedError = "Invalid admin code"

	// Pool messages
	ErrMsgPoolNotFoundError       = "The raffle has not been set up yet"
	ErrMsgRaffleNotActiveError    = "The raffle has not started yet"
	ErrMsgAlreadyActiveError      = "The raffle is already running"
	ErrMsgNoParticipantsError     = "Register at least one participant before starting"
	ErrMsgRaffleActiveError       = "Participants cannot be removed while the raffle is running"
	ErrMsgResetIncompleteError    = "A previous reset did not finish. Run reset again"
	ErrMsgPoolExhaustedError      = "All ranks have been handed out"
	ErrMsgInvalidStateError       = "The raffle is not in the right state for that"
	ErrMsgAlreadyParticipatedErr  = "You have already drawn a rank"
	ErrMsgParticipantNotFoundErr  = "Participant not found"
	ErrMsgDuplicateNameError      = "That display name is already registered"
	ErrMsgTokenExhaustedError     = "Could not issue an access token. Please try again"
	ErrMsgInvalidAccessTokenError = "Unknown access token"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Specific errors are checked before the group errors they wrap.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrMsgUnauthorizedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError

	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, ErrMsgPoolNotFoundError
	case errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusNotFound, ErrMsgParticipantNotFoundErr
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrMsgResourceNotFoundErr

	case errors.Is(err, domain.ErrRaffleNotActive):
		return http.StatusConflict, ErrMsgRaffleNotActiveError
	case errors.Is(err, domain.ErrAlreadyActive):
		return http.StatusConflict, ErrMsgAlreadyActiveError
	case errors.Is(err, domain.ErrNoParticipants):
		return http.StatusConflict, ErrMsgNoParticipantsError
	case errors.Is(err, domain.ErrRaffleActive):
		return http.StatusConflict, ErrMsgRaffleActiveError
	case errors.Is(err, domain.ErrResetIncomplete):
		return http.StatusConflict, ErrMsgResetIncompleteError
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, ErrMsgInvalidStateError

	case errors.Is(err, domain.ErrAlreadyParticipated):
		return http.StatusConflict, ErrMsgAlreadyParticipatedErr
	case errors.Is(err, domain.ErrPoolExhausted):
		return http.StatusGone, ErrMsgPoolExhaustedError
	case errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict, ErrMsgDuplicateNameError
	case errors.Is(err, domain.ErrTokenExhausted):
		return http.StatusServiceUnavailable, ErrMsgTokenExhaustedError

	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, ErrMsgTimeoutError
	case errors.Is(err, domain.ErrTransientFailure), errors.Is(err, domain.ErrConflict):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	}

	// Anything else is a store or programming error; never echo it to the client
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
