package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MadSCI-entist/the-green-co/internal/api/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimit{Requests: 3, Window: time.Minute})(okHandler())

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/dev", http.NoBody)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := range 3 {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code, "request %d", i+1)
	}

	rec := send("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "too-many-requests")

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code, "other clients keep their own budget")
}

func TestRateLimitByUser(t *testing.T) {
	limited := middleware.RateLimitByUser(middleware.RateLimit{Requests: 2, Window: time.Minute})(okHandler())

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/latest", http.NoBody)
		req.RemoteAddr = "10.0.0.9:1234"
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("usr_a"))
	assert.Equal(t, http.StatusOK, send("usr_a"))
	assert.Equal(t, http.StatusTooManyRequests, send("usr_a"))
	assert.Equal(t, http.StatusOK, send("usr_b"), "users sharing an IP are limited separately")
}

func TestDefaultRateLimits(t *testing.T) {
	limits := middleware.DefaultRateLimits()
	assert.Equal(t, 10, limits.Auth.Requests)
	assert.Equal(t, 30, limits.Calculate.Requests)
	assert.Equal(t, 100, limits.Standard.Requests)
	assert.Equal(t, time.Minute, limits.Standard.Window)
}
