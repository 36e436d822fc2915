package greenscore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

// ProfilesBreakerName is the registry name of the profile listing breaker.
const ProfilesBreakerName = "leaderboard-profile-list"

// ProfileLister lists every company profile in a stable order.
type ProfileLister interface {
	List(ctx context.Context) ([]*company.Profile, error)
}

// ServiceConfig holds configuration for creating a Service.
type ServiceConfig struct {
	Profiles ProfileLister
	Builder  *Builder
	Logger   zerolog.Logger

	// Registry, if set, receives the profile listing breaker's health.
	Registry *resilience.Registry
}

// Service serves the leaderboard. Leaderboards are recomputed on every call.
type Service struct {
	profiles ProfileLister
	builder  *Builder
	guard    *resilience.Guard[[]*company.Profile]
}

// NewService creates a new leaderboard service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger.With().Str("component", "leaderboard").Logger()

	cbConfig := resilience.DefaultCircuitBreakerConfig(ProfilesBreakerName)
	cbConfig.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("profile listing circuit breaker changed state")
	}

	guardConfig := resilience.DefaultGuardConfig(ProfilesBreakerName)
	guardConfig.CircuitBreaker = &cbConfig
	guardConfig.Registry = cfg.Registry

	return &Service{
		profiles: cfg.Profiles,
		builder:  cfg.Builder,
		guard:    resilience.NewGuard[[]*company.Profile](guardConfig),
	}
}

// Leaderboard returns every company with a record, ranked by green score.
// Only a failure to list profiles is returned as an error; while the profile
// store is failing the error wraps resilience.ErrCircuitOpen.
func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	profiles, err := s.guard.Do(ctx, s.profiles.List)
	if err != nil {
		return nil, fmt.Errorf("listing company profiles: %w", err)
	}
	return s.builder.Build(ctx, profiles), nil
}

// BreakerState returns the state of the profile listing breaker.
func (s *Service) BreakerState() gobreaker.State {
	return s.guard.State()
}
