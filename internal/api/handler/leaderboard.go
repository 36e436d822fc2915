package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

// LeaderboardService builds the ranked leaderboard.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// LeaderboardHandler serves GET /v1/leaderboard.
type LeaderboardHandler struct {
	leaderboard LeaderboardService
	log         zerolog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(svc LeaderboardService, log zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: svc, log: log}
}

// Leaderboard handles GET /v1/leaderboard.
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Leaderboard(r.Context())
	if errors.Is(err, resilience.ErrCircuitOpen) {
		response.ServiceUnavailable(w, r, "leaderboard is temporarily unavailable")
		return
	}
	if err != nil {
		internalError(w, r, h.log, err, "building leaderboard failed")
		return
	}
	response.JSON(w, r, http.StatusOK, entries)
}
