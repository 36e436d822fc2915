// Package api wires the Green Co. HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/handler"
	"github.com/MadSCI-entist/the-green-co/internal/api/middleware"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/auth"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger

	// Metrics is optional; nil disables HTTP metrics.
	Metrics *middleware.Metrics

	AuthService        *auth.Service
	CompanyService     *company.Service
	EmissionsService   *emissions.Service
	LeaderboardService handler.LeaderboardService

	// Database is pinged by the readiness and status endpoints; nil means in-memory storage.
	Database handler.Pinger
	Breakers *resilience.Registry

	DevAuthEnabled bool
	RequireTLS     bool
	AllowedOrigins []string

	// RateLimits defaults to middleware.DefaultRateLimits when zero.
	RateLimits middleware.RateLimits
}

// NewRouter creates a chi router with all /v1 routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	limits := cfg.RateLimits
	if limits == (middleware.RateLimits{}) {
		limits = middleware.DefaultRateLimits()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Tracing)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no such endpoint")
	})

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Database, cfg.Breakers)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	emissionsHandler := handler.NewEmissionsHandler(cfg.EmissionsService, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.CompanyService, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Logger)

	authenticate := middleware.Auth(cfg.AuthService)
	perUser := middleware.RateLimitByUser(limits.Standard)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authenticate).Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(limits.Auth))
			if cfg.DevAuthEnabled {
				r.Post("/dev", authHandler.DevLogin)
			}
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.With(authenticate).Post("/logout-all", authHandler.LogoutAll)
			r.With(authenticate).Get("/user", authHandler.CurrentUser)
		})

		r.With(middleware.RateLimitByIP(limits.Standard)).
			Get("/metadata/emission-factors", emissionsHandler.EmissionFactors)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(middleware.RateLimitByUser(limits.Calculate)).
				Post("/calculator/calculate", emissionsHandler.Calculate)

			r.Group(func(r chi.Router) {
				r.Use(perUser)

				r.Get("/profile", profileHandler.GetProfile)
				r.Post("/profile", profileHandler.UpsertProfile)
				r.Put("/profile", profileHandler.UpsertProfile)

				r.Get("/dashboard/latest", emissionsHandler.Latest)
				r.Get("/dashboard/history", emissionsHandler.History)

				r.Get("/leaderboard", leaderboardHandler.Leaderboard)
			})
		})
	})

	return r
}
