package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
)

// RateLimit is a request budget per window.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// RateLimits groups the budgets applied to each route class.
type RateLimits struct {
	// Auth covers the unauthenticated /auth endpoints, keyed by client IP.
	Auth RateLimit
	// Calculate covers emission calculations, keyed by user.
	Calculate RateLimit
	// Standard covers all other authenticated endpoints, keyed by user.
	Standard RateLimit
}

// DefaultRateLimits returns the production budgets.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Auth:      RateLimit{Requests: 10, Window: time.Minute},
		Calculate: RateLimit{Requests: 30, Window: time.Minute},
		Standard:  RateLimit{Requests: 100, Window: time.Minute},
	}
}

// RateLimitByIP limits requests per client IP.
func RateLimitByIP(limit RateLimit) func(http.Handler) http.Handler {
	return httprate.Limit(limit.Requests, limit.Window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(limitExceeded(limit.Window)),
	)
}

// RateLimitByUser limits requests per authenticated user, falling back to
// client IP when the request carries no user.
func RateLimitByUser(limit RateLimit) func(http.Handler) http.Handler {
	return httprate.Limit(limit.Requests, limit.Window,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(limitExceeded(limit.Window)),
	)
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID, nil
	}
	return httprate.KeyByRealIP(r)
}

// limitExceeded writes a 429 Problem. httprate does not expose the reset time,
// so Retry-After is the full window.
func limitExceeded(window time.Duration) http.HandlerFunc {
	retryAfter := strconv.Itoa(max(1, int(window.Seconds())))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", retryAfter)
		models.NewTooManyRequests(GetRequestID(r.Context()), "rate limit exceeded, retry later").
			WithInstance(r.URL.Path).
			Write(w)
	}
}
