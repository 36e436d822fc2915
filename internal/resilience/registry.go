package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker is the read-only view of a circuit breaker the registry needs.
// *gobreaker.CircuitBreaker[T] satisfies it for any T.
type Breaker interface {
	State() gobreaker.State
	Counts() gobreaker.Counts
}

// BreakerHealth represents the health status of a guarded dependency.
type BreakerHealth struct {
	// Name is the dependency identifier.
	Name string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is the timestamp of the last successful call.
	LastSuccessAt *time.Time

	// LastFailureAt is the timestamp of the last failed call.
	LastFailureAt *time.Time

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy returns true if the dependency is considered healthy.
func (h *BreakerHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the dependency is in a degraded state (half-open).
func (h *BreakerHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the dependency is unhealthy (circuit open).
func (h *BreakerHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks registered breakers and their health status.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*registeredBreaker
}

type registeredBreaker struct {
	breaker       Breaker
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates a new breaker registry.
func NewRegistry() *Registry {
	return &Registry{
		breakers: make(map[string]*registeredBreaker),
	}
}

// Register adds a breaker to the registry, replacing any with the same name.
func (r *Registry) Register(name string, b Breaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers[name] = &registeredBreaker{breaker: b}
}

// Unregister removes a breaker from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.breakers, name)
}

// RecordSuccess records a successful call.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		now := time.Now()
		b.lastSuccessAt = &now
	}
}

// RecordFailure records a failed call.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		now := time.Now()
		b.lastFailureAt = &now
		if err != nil {
			b.lastError = err.Error()
		}
	}
}

// GetHealth returns the health status of a specific breaker, or nil if unknown.
func (r *Registry) GetHealth(name string) *BreakerHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.breakers[name]
	if !ok {
		return nil
	}
	return b.health(name)
}

// GetAllHealth returns the health status of all registered breakers, ordered by name.
func (r *Registry) GetAllHealth() []*BreakerHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*BreakerHealth, 0, len(r.breakers))
	for name, b := range r.breakers {
		health = append(health, b.health(name))
	}
	sort.Slice(health, func(i, j int) bool {
		return health[i].Name < health[j].Name
	})
	return health
}

// Count returns the number of registered breakers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.breakers)
}

func (b *registeredBreaker) health(name string) *BreakerHealth {
	return &BreakerHealth{
		Name:          name,
		CircuitState:  b.breaker.State(),
		Counts:        b.breaker.Counts(),
		LastSuccessAt: b.lastSuccessAt,
		LastFailureAt: b.lastFailureAt,
		LastError:     b.lastError,
	}
}
