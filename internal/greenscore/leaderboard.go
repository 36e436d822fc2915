package greenscore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
)

const instrumentationName = "github.com/MadSCI-entist/the-green-co/internal/greenscore"

// DefaultConcurrency is the number of latest-record lookups run at once.
const DefaultConcurrency = 8

// DefaultLookupTimeout bounds a single latest-record lookup.
const DefaultLookupTimeout = 2 * time.Second

// RecordLookup returns a user's latest emission record.
// It returns emissions.ErrRecordNotFound when the user has none.
type RecordLookup interface {
	Latest(ctx context.Context, userID string) (*emissions.Record, error)
}

// Rank sorts entries by green score, highest first, and assigns 1-based ranks.
// Entries with equal scores keep their relative input order.
func Rank(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].GreenScore > entries[j].GreenScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// BuilderConfig holds configuration for creating a Builder.
type BuilderConfig struct {
	Lookup RecordLookup
	Logger zerolog.Logger

	// Concurrency bounds parallel lookups. Default: DefaultConcurrency.
	Concurrency int

	// LookupTimeout bounds each latest-record lookup. Default: DefaultLookupTimeout.
	LookupTimeout time.Duration
}

// Builder assembles leaderboards from company profiles and their latest records.
type Builder struct {
	lookup      RecordLookup
	logger      zerolog.Logger
	concurrency int
	timeout     time.Duration
	tracer      trace.Tracer
	failures    metric.Int64Counter
}

// NewBuilder creates a new leaderboard builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	failures, err := otel.Meter(instrumentationName).Int64Counter(
		"leaderboard.lookup.failures",
		metric.WithDescription("Latest-record lookups that failed while building a leaderboard"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &Builder{
		lookup:      cfg.Lookup,
		logger:      cfg.Logger.With().Str("component", "leaderboard").Logger(),
		concurrency: concurrency,
		timeout:     timeout,
		tracer:      otel.Tracer(instrumentationName),
		failures:    failures,
	}, nil
}

// Build scores every profile against its owner's latest record and returns the ranked result.
// Profiles without a record are left out. A failed lookup is logged and counted, and
// that profile is left out too; it never fails the whole leaderboard.
func (b *Builder) Build(ctx context.Context, profiles []*company.Profile) []models.LeaderboardEntry {
	ctx, span := b.tracer.Start(ctx, "greenscore.BuildLeaderboard",
		trace.WithAttributes(attribute.Int("leaderboard.profiles", len(profiles))),
	)
	defer span.End()

	// Slots are indexed by profile so the pre-sort order does not depend on lookup timing.
	slots := make([]*models.LeaderboardEntry, len(profiles))
	var failed atomic.Int64

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.concurrency)
	for i, p := range profiles {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			entry, ok := b.entryFor(ctx, p)
			if !ok {
				failed.Add(1)
			}
			slots[i] = entry
		}()
	}
	wg.Wait()

	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	span.SetAttributes(
		attribute.Int("leaderboard.entries", len(entries)),
		attribute.Int64("leaderboard.lookup_errors", failed.Load()),
	)

	return Rank(entries)
}

// entryFor scores a single profile. It returns a nil entry when the owner has no
// record or the lookup failed; ok is false only for a failed lookup.
func (b *Builder) entryFor(ctx context.Context, p *company.Profile) (entry *models.LeaderboardEntry, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	record, err := b.lookup.Latest(ctx, p.UserID)
	if errors.Is(err, emissions.ErrRecordNotFound) {
		return nil, true
	}
	if err != nil {
		b.failures.Add(ctx, 1)
		b.logger.Warn().
			Err(err).
			Str("user_id", p.UserID).
			Msg("latest record lookup failed, excluding company from leaderboard")
		return nil, false
	}

	co2 := record.Result.OptimizedTotal
	return &models.LeaderboardEntry{
		UserID:         p.UserID,
		CompanyName:    p.CompanyName,
		Sector:         p.Sector,
		GreenScore:     ComputeGreenScore(co2, p.TotalDistance, p.LoadEfficiency, p.RenewableShare),
		CO2Emissions:   co2,
		TotalDistance:  p.TotalDistance,
		LoadEfficiency: p.LoadEfficiency,
		RenewableShare: p.RenewableShare,
	}, true
}
