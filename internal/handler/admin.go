package handler

import (
	"net/http"
	"time"

	"github.com/osse101/ChitDraw_Go/internal/domain"
	"github.com/osse101/ChitDraw_Go/internal/logger"
	"github.com/osse101/ChitDraw_Go/internal/raffle"
)

// RegisterParticipantRequest creates a participant
type RegisterParticipantRequest struct {
	DisplayName string `json:"display_name" validate:"required,displayname,excludesall=\x00\n\r\t"`
}

// SetSecretRequest rotates the admin code
type SetSecretRequest struct {
	Secret string `json:"secret" validate:"required,max=128"`
}

// PoolView is the admin view of the pool record. The admin secret never leaves the service.
type PoolView struct {
	Status         domain.RaffleStatus `json:"status"`
	PoolSize       int                 `json:"pool_size"`
	AvailableRanks []int               `json:"available_ranks"`
	Version        int64               `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func newPoolView(pool *domain.RafflePool) PoolView {
	return PoolView{
		Status:         pool.EffectiveStatus(),
		PoolSize:       pool.PoolSize(),
		AvailableRanks: pool.AvailableRanks,
		Version:        pool.Version,
		CreatedAt:      pool.CreatedAt,
		UpdatedAt:      pool.UpdatedAt,
	}
}

// AdminHandler serves the endpoints behind the admin code
type AdminHandler struct {
	service raffle.Service
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(service raffle.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// HandleAuth confirms an admin code. The check itself happens in the admin
// middleware; reaching this handler means the code was accepted.
// @Summary Verify admin code
// @Tags admin
// @Param X-Admin-Code header string true "Admin code"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Locked out"
// @Router /api/v1/admin/auth [post]
func (h *AdminHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleListParticipants lists every participant, newest first
// @Summary List participants
// @Tags admin
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Success 200 {array} domain.Participant
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/participants [get]
func (h *AdminHandler) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.service.ListParticipants(r.Context())
	if err != nil {
		respondServiceError(w, r, LogMsgListFailed, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	respondJSON(w, http.StatusOK, participants)
}

// HandleRegisterParticipant creates a participant and returns its access code
// @Summary Register participant
// @Description The access code is only ever returned by this call
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Param request body RegisterParticipantRequest true "Participant"
// @Success 201 {object} domain.Registration
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate name"
// @Failure 503 {object} ErrorResponse "No free access code"
// @Router /api/v1/admin/participants [post]
func (h *AdminHandler) HandleRegisterParticipant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterParticipantRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register participant"); err != nil {
		return
	}
	LogRequestFields(log, "display_name", req.DisplayName)

	registration, err := h.service.RegisterParticipant(r.Context(), req.DisplayName)
	if err != nil {
		respondServiceError(w, r, LogMsgRegisterFailed, err)
		return
	}

	log.Info(LogMsgParticipantCreated, "participant_id", registration.Participant.ID)
	respondJSON(w, http.StatusCreated, registration)
}

// HandleDeleteParticipant removes a participant while the raffle is not running
// @Summary Delete participant
// @Tags admin
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Param id path string true "Participant ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Raffle active"
// @Router /api/v1/admin/participants/{id} [delete]
func (h *AdminHandler) HandleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteParticipant(r.Context(), id); err != nil {
		respondServiceError(w, r, LogMsgDeleteFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgParticipantDeleted})
}

// HandleStart shuffles ranks 1..N and opens the raffle
// @Summary Start raffle
// @Tags admin
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Success 200 {object} domain.StartResult
// @Failure 404 {object} ErrorResponse "No pool"
// @Failure 409 {object} ErrorResponse "Already active, no participants or unfinished reset"
// @Router /api/v1/admin/raffle/start [post]
func (h *AdminHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Start(r.Context())
	if err != nil {
		respondServiceError(w, r, LogMsgStartFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleReset puts the pool back to waiting and clears every assignment
// @Summary Reset raffle
// @Description Safe to call again after a partial failure
// @Tags admin
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Success 200 {object} domain.ResetResult
// @Failure 404 {object} ErrorResponse "No pool"
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/raffle/reset [post]
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reset(r.Context())
	if err != nil {
		respondServiceError(w, r, LogMsgResetFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleGetPool returns the pool record without its secret
// @Summary Get pool
// @Tags admin
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Success 200 {object} PoolView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/raffle [get]
func (h *AdminHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := h.service.GetPool(r.Context())
	if err != nil {
		respondServiceError(w, r, LogMsgGetPoolFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, newPoolView(pool))
}

// HandleSetSecret rotates the admin code
// @Summary Rotate admin code
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Code header string true "Admin code"
// @Param request body SetSecretRequest true "New code"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/secret [put]
func (h *AdminHandler) HandleSetSecret(w http.ResponseWriter, r *http.Request) {
	var req SetSecretRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set admin secret"); err != nil {
		return
	}

	if err := h.service.SetAdminSecret(r.Context(), req.Secret); err != nil {
		respondServiceError(w, r, LogMsgSetSecretFailed, err)
		return
	}

	logger.FromContext(r.Context()).Info(MsgSecretUpdated)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSecretUpdated})
}
