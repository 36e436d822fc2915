package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

// readinessTimeout bounds the database ping behind /ops/ready and /ops/status.
const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
	breakers  *resilience.Registry
	now       func() time.Time
}

// NewOpsHandler creates a new OpsHandler. db and breakers may be nil when the
// API runs on in-memory storage.
func NewOpsHandler(version, buildTime string, db Pinger, breakers *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		db:        db,
		breakers:  breakers,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health (liveness).
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. It fails with 503 when the
// database does not answer a ping.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	db := h.databaseStatus(r.Context())
	if db.Status == models.HealthStatusFail {
		response.ServiceUnavailable(w, r, "database is not reachable")
		return
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
	})
}

// SystemStatus handles GET /v1/ops/status: database reachability plus the
// state of every registered circuit breaker.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(h.now()),
		Subsystems: []models.SubsystemStatus{h.databaseStatus(r.Context())},
		Breakers:   []models.BreakerStatus{},
	}

	if h.breakers != nil {
		for _, health := range h.breakers.GetAllHealth() {
			status.Breakers = append(status.Breakers, toBreakerStatus(health))
		}
	}

	for _, s := range status.Subsystems {
		status.Status = worst(status.Status, s.Status)
	}
	for _, b := range status.Breakers {
		status.Status = worst(status.Status, b.Status)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) databaseStatus(ctx context.Context) models.SubsystemStatus {
	s := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
	if h.db == nil {
		detail := "in-memory storage"
		s.Detail = &detail
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		detail := err.Error()
		s.Status = models.HealthStatusFail
		s.Detail = &detail
	}
	return s
}

func toBreakerStatus(h *resilience.BreakerHealth) models.BreakerStatus {
	b := models.BreakerStatus{
		Name:     h.Name,
		State:    h.CircuitState.String(),
		Status:   models.HealthStatusOK,
		Requests: h.Counts.Requests,
		Failures: h.Counts.TotalFailures,
	}
	switch {
	case h.IsUnhealthy():
		b.Status = models.HealthStatusFail
	case h.IsDegraded():
		b.Status = models.HealthStatusDegraded
	}
	if h.LastSuccessAt != nil {
		ts := models.Timestamp(*h.LastSuccessAt)
		b.LastSuccessAt = &ts
	}
	if h.LastFailureAt != nil {
		ts := models.Timestamp(*h.LastFailureAt)
		b.LastFailureAt = &ts
	}
	if h.LastError != "" {
		lastErr := h.LastError
		b.LastError = &lastErr
	}
	return b
}

var healthRank = map[models.HealthStatus]int{
	models.HealthStatusOK:       0,
	models.HealthStatusDegraded: 1,
	models.HealthStatusFail:     2,
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	if healthRank[b] > healthRank[a] {
		return b
	}
	return a
}
