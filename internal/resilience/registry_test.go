package resilience_test

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadSCI-entist/the-green-co/internal/resilience"
)

func newRegisteredGuard(registry *resilience.Registry, name string) *resilience.Guard[int] {
	cfg := resilience.DefaultGuardConfig(name)
	cfg.Registry = registry
	return resilience.NewGuard[int](cfg)
}

func TestRegistry_RegisterAndGetHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	guard := newRegisteredGuard(registry, "record-store")

	assert.Equal(t, 1, registry.Count())

	health := registry.GetHealth("record-store")
	require.NotNil(t, health)
	assert.Equal(t, "record-store", health.Name)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.False(t, health.IsDegraded())
	assert.False(t, health.IsUnhealthy())

	assert.Equal(t, "record-store", guard.Name())
}

func TestRegistry_Unregister(t *testing.T) {
	registry := resilience.NewRegistry()
	_ = newRegisteredGuard(registry, "record-store")

	registry.Unregister("record-store")

	assert.Equal(t, 0, registry.Count())
	assert.Nil(t, registry.GetHealth("record-store"))
}

func TestRegistry_RecordsOutcomesFromGuard(t *testing.T) {
	registry := resilience.NewRegistry()
	guard := newRegisteredGuard(registry, "record-store")
	ctx := context.Background()

	health := registry.GetHealth("record-store")
	require.NotNil(t, health)
	assert.Nil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)

	_, err := guard.Do(ctx, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	health = registry.GetHealth("record-store")
	require.NotNil(t, health.LastSuccessAt)
	assert.WithinDuration(t, time.Now(), *health.LastSuccessAt, time.Second)

	_, err = guard.Do(ctx, func(context.Context) (int, error) { return 0, assert.AnError })
	require.Error(t, err)

	health = registry.GetHealth("record-store")
	require.NotNil(t, health.LastFailureAt)
	assert.Equal(t, assert.AnError.Error(), health.LastError)
	assert.Equal(t, uint32(2), health.Counts.Requests)
}

func TestRegistry_GetAllHealth_SortedByName(t *testing.T) {
	registry := resilience.NewRegistry()
	for _, name := range []string{"c-store", "a-store", "b-store"} {
		_ = newRegisteredGuard(registry, name)
	}

	healthList := registry.GetAllHealth()
	require.Len(t, healthList, 3)
	assert.Equal(t, "a-store", healthList[0].Name)
	assert.Equal(t, "b-store", healthList[1].Name)
	assert.Equal(t, "c-store", healthList[2].Name)
	for _, h := range healthList {
		assert.Equal(t, gobreaker.StateClosed, h.CircuitState)
	}
}

func TestRegistry_UnknownNames(t *testing.T) {
	registry := resilience.NewRegistry()

	assert.Nil(t, registry.GetHealth("nonexistent"))

	// Should not panic
	registry.RecordSuccess("nonexistent")
	registry.RecordFailure("nonexistent", assert.AnError)
}

func TestBreakerHealth_States(t *testing.T) {
	tests := []struct {
		state      gobreaker.State
		isHealthy  bool
		isDegraded bool
		isUnhealth bool
	}{
		{gobreaker.StateClosed, true, false, false},
		{gobreaker.StateHalfOpen, false, true, false},
		{gobreaker.StateOpen, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			h := &resilience.BreakerHealth{CircuitState: tt.state}
			assert.Equal(t, tt.isHealthy, h.IsHealthy())
			assert.Equal(t, tt.isDegraded, h.IsDegraded())
			assert.Equal(t, tt.isUnhealth, h.IsUnhealthy())
		})
	}
}
