package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
)

// TokenRequest carries a participant access code
type TokenRequest struct {
	Token string `json:"token" validate:"required,accesstoken"`
}

// ParticipantHandler serves the endpoints a participant calls with their access code
type ParticipantHandler struct {
	service raffle.Service
}

// NewParticipantHandler creates a participant handler
func NewParticipantHandler(service raffle.Service) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

// HandleLogin resolves an access code to its participant
// @Summary Participant login
// @Description Resolves an access code and marks the participant as joined
// @Tags participant
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Access code"
// @Success 200 {object} domain.Participant
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Unknown access code"
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/participant/login [post]
func (h *ParticipantHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Login"); err != nil {
		return
	}

	participant, err := h.service.Login(r.Context(), req.Token)
	if err != nil {
		if respondUnknownToken(w, r, LogMsgLoginFailed, err) {
			return
		}
		respondServiceError(w, r, LogMsgLoginFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, participant)
}

// HandleDraw hands the caller the next rank of the pool
// @Summary Draw a rank
// @Description Atomically takes one rank from the pool for the participant holding the access code
// @Tags participant
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Access code"
// @Success 200 {object} domain.DrawResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Unknown access code"
// @Failure 409 {object} ErrorResponse "Raffle not active or already drawn"
// @Failure 410 {object} ErrorResponse "Pool exhausted"
// @Failure 503 {object} ErrorResponse "Too much contention"
// @Failure 504 {object} ErrorResponse "Timed out"
// @Router /api/v1/participant/draw [post]
func (h *ParticipantHandler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Draw"); err != nil {
		return
	}

	result, err := h.service.Draw(r.Context(), req.Token)
	if err != nil {
		if respondUnknownToken(w, r, LogMsgDrawFailed, err) {
			return
		}
		respondServiceError(w, r, LogMsgDrawFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgDrawSucceeded,
		"participant_id", result.Participant.ID,
		"rank", result.Rank)

	respondJSON(w, http.StatusOK, result)
}

// respondUnknownToken answers 401 when an access code matches nobody, so the
// public endpoints do not read like a missing resource
func respondUnknownToken(w http.ResponseWriter, r *http.Request, logMsg string, err error) bool {
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		return false
	}
	logger.FromContext(r.Context()).Warn(logMsg, "error", err)
	respondError(w, http.StatusUnauthorized, ErrMsgInvalidAccessTokenError)
	return true
}
