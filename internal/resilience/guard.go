package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// GuardConfig holds configuration for a Guard.
type GuardConfig struct {
	// Name identifies the guarded dependency in the registry.
	Name string

	// Timeout bounds each guarded call. Zero disables the per-call timeout.
	// Default: 2 seconds
	Timeout time.Duration

	// CircuitBreaker is the circuit breaker configuration.
	// If nil, uses DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig

	// Registry receives health updates. If nil, the guard is not registered.
	Registry *Registry
}

// DefaultGuardConfig returns sensible defaults for a guard.
func DefaultGuardConfig(name string) GuardConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return GuardConfig{
		Name:           name,
		Timeout:        2 * time.Second,
		CircuitBreaker: &cbConfig,
	}
}

// Guard runs calls through a circuit breaker with a per-call timeout.
// Calls are never retried; a failed call is reported to the caller as-is.
type Guard[T any] struct {
	name     string
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[T]
	registry *Registry
}

// NewGuard creates a guard and registers it with cfg.Registry, if set.
func NewGuard[T any](cfg GuardConfig) *Guard[T] {
	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}
	if cbConfig.Name == "" {
		cbConfig.Name = cfg.Name
	}

	g := &Guard[T]{
		name:     cfg.Name,
		timeout:  cfg.Timeout,
		breaker:  NewCircuitBreaker[T](cbConfig),
		registry: cfg.Registry,
	}

	if g.registry != nil {
		g.registry.Register(cfg.Name, g.breaker)
	}

	return g
}

// Name returns the guard name.
func (g *Guard[T]) Name() string {
	return g.name
}

// Do executes fn through the circuit breaker.
// Returns ErrCircuitOpen without calling fn if the breaker is open.
func (g *Guard[T]) Do(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	result, err := g.breaker.Execute(func() (T, error) {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return fn(callCtx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = ErrCircuitOpen
		}
		if g.registry != nil {
			g.registry.RecordFailure(g.name, err)
		}
		return result, err
	}

	if g.registry != nil {
		g.registry.RecordSuccess(g.name)
	}
	return result, nil
}

// State returns the current state of the circuit breaker.
func (g *Guard[T]) State() gobreaker.State {
	return g.breaker.State()
}

// Counts returns the current counts of the circuit breaker.
func (g *Guard[T]) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
