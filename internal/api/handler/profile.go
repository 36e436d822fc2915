package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/company"
)

// ProfileService is the part of *company.Service the profile endpoints use.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, userID string, input *models.CompanyProfileInput) (*models.CompanyProfile, error)
}

// ProfileHandler handles company profile endpoints.
type ProfileHandler struct {
	profiles ProfileService
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// GetProfile handles GET /v1/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if errors.Is(err, company.ErrProfileNotFound) {
		response.NotFound(w, r, "company profile not found")
		return
	}
	if err != nil {
		internalError(w, r, h.log, err, "loading profile failed")
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}

// UpsertProfile handles POST and PUT /v1/profile. Both replace the caller's
// profile wholesale; the owner is always the authenticated user.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.CompanyProfileInput
	if !response.Bind(w, r, &input) {
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), userID, &input)
	if err != nil {
		internalError(w, r, h.log, err, "saving profile failed")
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}
