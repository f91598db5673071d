package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/ChitDraw_Go/internal/domain"
)

// Projector builds the read-only views shown to participants and displays
type Projector interface {
	Leaderboard(ctx context.Context) (domain.Leaderboard, error)
	Status(ctx context.Context) (domain.StatusSnapshot, error)
}

// HandleGetLeaderboard returns the current ranking
// @Summary Leaderboard
// @Description Ranked participants first by rank, then unranked participants by name
// @Tags projection
// @Produce json
// @Param limit query int false "Return at most this many entries (0 for all)"
// @Success 200 {object} domain.Leaderboard
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/leaderboard [get]
func HandleGetLeaderboard(projector Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		board, err := projector.Leaderboard(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgGetLeaderboardFailed, err)
			return
		}

		if limit > 0 && len(board.Entries) > limit {
			board.Entries = board.Entries[:limit]
		}
		respondJSON(w, http.StatusOK, board)
	}
}

// HandleGetStatus returns the waiting-room view of the raffle
// @Summary Raffle status
// @Tags projection
// @Produce json
// @Success 200 {object} domain.StatusSnapshot
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/status [get]
func HandleGetStatus(projector Projector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := projector.Status(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgGetStatusFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}
