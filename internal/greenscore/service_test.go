package greenscore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
	"github.com/MadSCI-entist/the-green-co/internal/greenscore"
	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

func TestService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	companies := company.NewService(company.NewInMemoryRepository())
	recordRepo := emissions.NewInMemoryRepository()
	records := emissions.NewService(recordRepo, emissions.NewCalculator(emissions.DefaultFactors()))

	profileFor := func(name string) *models.CompanyProfileInput {
		return &models.CompanyProfileInput{
			CompanyName:    name,
			Sector:         "logistics",
			TotalDistance:  50000,
			LoadEfficiency: 0.8,
			RenewableShare: 0.4,
		}
	}

	_, err := companies.Upsert(ctx, "usr_heavy", profileFor("Heavy Haulage"))
	require.NoError(t, err)
	_, err = companies.Upsert(ctx, "usr_light", profileFor("Light Logistics"))
	require.NoError(t, err)
	_, err = companies.Upsert(ctx, "usr_new", profileFor("Newcomer"))
	require.NoError(t, err)

	_, err = records.Calculate(ctx, "usr_heavy", &models.EmissionInput{TruckKm: 40000, PlaneLoadFactor: 100})
	require.NoError(t, err)
	_, err = records.Calculate(ctx, "usr_light", &models.EmissionInput{CarKm: 40000, EVShare: 80, PlaneLoadFactor: 100})
	require.NoError(t, err)

	builder, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup: recordRepo,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	svc := greenscore.NewService(greenscore.ServiceConfig{
		Profiles: companies,
		Builder:  builder,
		Logger:   zerolog.Nop(),
	})
	board, err := svc.Leaderboard(ctx)
	require.NoError(t, err)

	require.Len(t, board, 2)
	assert.Equal(t, "usr_light", board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "usr_heavy", board[1].UserID)
	assert.Equal(t, 2, board[1].Rank)
}

type failingLister struct{}

func (failingLister) List(context.Context) ([]*company.Profile, error) {
	return nil, errors.New("connection refused")
}

func TestService_Leaderboard_ListError(t *testing.T) {
	builder, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup: emissions.NewInMemoryRepository(),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	svc := greenscore.NewService(greenscore.ServiceConfig{
		Profiles: failingLister{},
		Builder:  builder,
		Logger:   zerolog.Nop(),
	})
	_, err = svc.Leaderboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing company profiles")
}

func TestService_Leaderboard_ListFailuresOpenBreaker(t *testing.T) {
	builder, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup: emissions.NewInMemoryRepository(),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	registry := resilience.NewRegistry()
	svc := greenscore.NewService(greenscore.ServiceConfig{
		Profiles: failingLister{},
		Builder:  builder,
		Logger:   zerolog.Nop(),
		Registry: registry,
	})

	for i := 0; i < 5; i++ {
		_, err = svc.Leaderboard(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, svc.BreakerState())

	_, err = svc.Leaderboard(context.Background())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

	health := registry.GetHealth(greenscore.ProfilesBreakerName)
	require.NotNil(t, health)
	assert.True(t, health.IsUnhealthy())
}

// failingLookup fails every latest-record lookup.
type failingLookup struct{}

func (failingLookup) Latest(context.Context, string) (*emissions.Record, error) {
	return nil, errors.New("scan failed")
}

func TestService_Leaderboard_LookupFailuresKeepBreakerClosed(t *testing.T) {
	ctx := context.Background()
	companies := company.NewService(company.NewInMemoryRepository())
	_, err := companies.Upsert(ctx, "usr_a", &models.CompanyProfileInput{
		CompanyName:    "Broken Row Ltd",
		Sector:         "logistics",
		TotalDistance:  1000,
		LoadEfficiency: 0.8,
	})
	require.NoError(t, err)

	builder, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup: failingLookup{},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	svc := greenscore.NewService(greenscore.ServiceConfig{
		Profiles: companies,
		Builder:  builder,
		Logger:   zerolog.Nop(),
	})

	for i := 0; i < 10; i++ {
		board, err := svc.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Empty(t, board)
	}
	assert.Equal(t, gobreaker.StateClosed, svc.BreakerState())
}
