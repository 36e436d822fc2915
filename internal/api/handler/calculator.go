package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
)

// EmissionsService is the part of *emissions.Service the calculator and
// dashboard endpoints use.
type EmissionsService interface {
	Calculate(ctx context.Context, userID string, input *models.EmissionInput) (*models.EmissionRecord, error)
	Latest(ctx context.Context, userID string) (*models.EmissionRecord, error)
	History(ctx context.Context, userID string, limit int) (*models.EmissionHistory, error)
	Factors() models.EmissionFactors
}

// EmissionsHandler serves calculations, the dashboard and the factor set.
type EmissionsHandler struct {
	emissions EmissionsService
	log       zerolog.Logger
}

// NewEmissionsHandler creates a new EmissionsHandler.
func NewEmissionsHandler(svc EmissionsService, log zerolog.Logger) *EmissionsHandler {
	return &EmissionsHandler{emissions: svc, log: log}
}

// Calculate handles POST /v1/calculator/calculate.
// The stored record is returned with 201.
func (h *EmissionsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.EmissionInput
	if !response.Bind(w, r, &input) {
		return
	}

	record, err := h.emissions.Calculate(r.Context(), userID, &input)
	if err != nil {
		internalError(w, r, h.log, err, "storing calculation failed")
		return
	}
	response.Created(w, r, record)
}

// Latest handles GET /v1/dashboard/latest.
func (h *EmissionsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	record, err := h.emissions.Latest(r.Context(), userID)
	if errors.Is(err, emissions.ErrRecordNotFound) {
		response.NotFound(w, r, "no emission record yet")
		return
	}
	if err != nil {
		internalError(w, r, h.log, err, "loading latest record failed")
		return
	}
	response.JSON(w, r, http.StatusOK, record)
}

// History handles GET /v1/dashboard/history?limit=N.
// Missing limit uses the default; values above the maximum are capped.
func (h *EmissionsHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(w, r, "invalid query parameter", []models.FieldError{{
				Field:   "limit",
				Message: "limit must be a positive integer",
				Code:    "invalid",
			}})
			return
		}
		limit = n
	}

	history, err := h.emissions.History(r.Context(), userID, limit)
	if err != nil {
		internalError(w, r, h.log, err, "loading history failed")
		return
	}
	response.JSON(w, r, http.StatusOK, history)
}

// EmissionFactors handles GET /v1/metadata/emission-factors.
func (h *EmissionsHandler) EmissionFactors(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.emissions.Factors())
}
