package greenscore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/company"
	"github.com/MadSCI-entist/the-green-co/internal/emissions"
	"github.com/MadSCI-entist/the-green-co/internal/greenscore"
)

// stubLookup serves latest records from a map and fails for selected users.
type stubLookup struct {
	mu      sync.Mutex
	records map[string]float64 // userID -> optimized total
	failFor map[string]bool
	calls   int
}

func (s *stubLookup) Latest(_ context.Context, userID string) (*emissions.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.failFor[userID] {
		return nil, errors.New("store unavailable")
	}
	total, ok := s.records[userID]
	if !ok {
		return nil, emissions.ErrRecordNotFound
	}
	return &emissions.Record{
		ID:     "rec_" + userID,
		UserID: userID,
		Result: emissions.Result{OptimizedTotal: total},
	}, nil
}

func profile(userID string, distance, loadEfficiency, renewableShare float64) *company.Profile {
	return &company.Profile{
		UserID:         userID,
		CompanyName:    "Company " + userID,
		Sector:         "logistics",
		TotalDistance:  distance,
		LoadEfficiency: loadEfficiency,
		RenewableShare: renewableShare,
	}
}

func newBuilder(t *testing.T, lookup greenscore.RecordLookup) *greenscore.Builder {
	t.Helper()
	b, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup:      lookup,
		Logger:      zerolog.Nop(),
		Concurrency: 4,
	})
	require.NoError(t, err)
	return b
}

func TestBuilder_ExcludesProfilesWithoutRecord(t *testing.T) {
	lookup := &stubLookup{records: map[string]float64{
		"usr_a": 10,
		"usr_c": 5,
	}}
	b := newBuilder(t, lookup)

	entries := b.Build(context.Background(), []*company.Profile{
		profile("usr_a", 1000, 0.8, 0.5),
		profile("usr_b", 1000, 0.9, 0.9),
		profile("usr_c", 1000, 0.8, 0.5),
	})

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, "usr_b", e.UserID)
	}
	assert.Equal(t, 3, lookup.calls)
}

func TestBuilder_EntryFields(t *testing.T) {
	lookup := &stubLookup{records: map[string]float64{"usr_a": 10}}
	b := newBuilder(t, lookup)

	entries := b.Build(context.Background(), []*company.Profile{profile("usr_a", 1000, 0.8, 0.5)})

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "usr_a", e.UserID)
	assert.Equal(t, "Company usr_a", e.CompanyName)
	assert.Equal(t, "logistics", e.Sector)
	assert.InDelta(t, 120, e.GreenScore, 1e-9)
	assert.Equal(t, 10.0, e.CO2Emissions)
	assert.Equal(t, 1000.0, e.TotalDistance)
	assert.Equal(t, 0.8, e.LoadEfficiency)
	assert.Equal(t, 0.5, e.RenewableShare)
	assert.Equal(t, 1, e.Rank)
}

func TestBuilder_SortedAndRanked(t *testing.T) {
	records := make(map[string]float64)
	profiles := make([]*company.Profile, 0, 20)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("usr_%02d", i)
		records[id] = float64(1 + (i*7)%11)
		profiles = append(profiles, profile(id, 1000, 0.5+float64(i%3)*0.1, 0.2))
	}
	b := newBuilder(t, &stubLookup{records: records})

	entries := b.Build(context.Background(), profiles)

	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.LessOrEqual(t, e.GreenScore, entries[i-1].GreenScore)
		}
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	records := map[string]float64{}
	var profiles []*company.Profile
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("usr_%02d", i)
		// Pairs share a score to exercise tie handling.
		records[id] = float64(10 + i/2)
		profiles = append(profiles, profile(id, 1000, 0.8, 0.5))
	}
	b := newBuilder(t, &stubLookup{records: records})

	first := b.Build(context.Background(), profiles)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.Build(context.Background(), profiles))
	}

	// Ties keep profile order.
	assert.Equal(t, "usr_00", first[0].UserID)
	assert.Equal(t, "usr_01", first[1].UserID)
}

func TestBuilder_LookupErrorExcludesOnlyThatProfile(t *testing.T) {
	lookup := &stubLookup{
		records: map[string]float64{"usr_a": 10, "usr_b": 20, "usr_c": 5},
		failFor: map[string]bool{"usr_b": true},
	}
	b := newBuilder(t, lookup)

	entries := b.Build(context.Background(), []*company.Profile{
		profile("usr_a", 1000, 0.8, 0.5),
		profile("usr_b", 1000, 0.8, 0.5),
		profile("usr_c", 1000, 0.8, 0.5),
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "usr_c", entries[0].UserID)
	assert.Equal(t, "usr_a", entries[1].UserID)
}

func TestBuilder_Empty(t *testing.T) {
	b := newBuilder(t, &stubLookup{})

	entries := b.Build(context.Background(), nil)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestBuilder_PersistentLookupFailureNeverExcludesOthers(t *testing.T) {
	lookup := &stubLookup{
		records: map[string]float64{"usr_a": 10},
		failFor: map[string]bool{"usr_b": true},
	}
	b := newBuilder(t, lookup)
	profiles := []*company.Profile{
		profile("usr_a", 1000, 0.8, 0.5),
		profile("usr_b", 1000, 0.8, 0.5),
	}

	for i := 0; i < 20; i++ {
		entries := b.Build(context.Background(), profiles)
		require.Len(t, entries, 1, "build %d", i+1)
		assert.Equal(t, "usr_a", entries[0].UserID)
	}
	assert.Equal(t, 40, lookup.calls)
}

// slowLookup blocks until the lookup context is done.
type slowLookup struct{}

func (slowLookup) Latest(ctx context.Context, _ string) (*emissions.Record, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBuilder_LookupTimeout(t *testing.T) {
	b, err := greenscore.NewBuilder(greenscore.BuilderConfig{
		Lookup:        slowLookup{},
		Logger:        zerolog.Nop(),
		LookupTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	entries := b.Build(context.Background(), []*company.Profile{profile("usr_a", 1000, 0.8, 0.5)})
	assert.Empty(t, entries)
}

func TestRank(t *testing.T) {
	entries := greenscore.Rank([]models.LeaderboardEntry{
		{UserID: "a", GreenScore: 10},
		{UserID: "b", GreenScore: 30},
		{UserID: "c", GreenScore: 10},
		{UserID: "d", GreenScore: 0},
	})

	ids := make([]string, 0, len(entries))
	ranks := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
		ranks = append(ranks, e.Rank)
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids)
	assert.Equal(t, []int{1, 2, 3, 4}, ranks)
}
