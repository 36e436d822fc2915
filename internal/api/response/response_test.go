package response_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadSCI-entist/the-green-co/internal/api/middleware"
	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
)

// serve runs fn behind the RequestID middleware so handlers see a request ID.
func serve(req *http.Request, fn http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.RequestID(fn).ServeHTTP(rec, req)
	return rec
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "req-1")

	rec := serve(req, func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"message": "hello"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-1", rec.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"message":"hello"}`, rec.Body.String())
}

func TestCreatedAndNoContent(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodPost, "/", http.NoBody), func(w http.ResponseWriter, r *http.Request) {
		response.Created(w, r, map[string]int{"n": 1})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())

	rec = serve(httptest.NewRequest(http.MethodPost, "/", http.NoBody), response.NoContent)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		typ    string
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) { response.BadRequest(w, r, "bad", nil) }, 400, models.ProblemTypeValidation},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) { response.Unauthorized(w, r, "no") }, 401, models.ProblemTypeUnauthorized},
		{"not found", func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "gone") }, 404, models.ProblemTypeNotFound},
		{"internal", func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "oops") }, 500, models.ProblemTypeInternal},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) { response.ServiceUnavailable(w, r, "down") }, 503, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/profile", http.NoBody)
			req.Header.Set(middleware.RequestIDHeader, "req-2")
			rec := serve(req, tt.write)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var p models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, "/v1/profile", p.Instance)
			assert.Equal(t, "req-2", p.TraceID)
		})
	}
}

type bindTarget struct {
	Name  string  `json:"name" validate:"required"`
	Share float64 `json:"share" validate:"gte=0,lte=1"`
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		contain string
	}{
		{"valid", `{"name":"acme","share":0.5}`, true, ""},
		{"empty body", ``, false, ""},
		{"malformed", `{"name":`, false, "not valid JSON"},
		{"unknown field", `{"name":"a","extra":1}`, false, "has an unknown field"},
		{"trailing data", `{"name":"a"}{"name":"b"}`, false, "single JSON object"},
		{"validation", `{"share":2}`, false, "name is required"},
		{"too large", `{"name":"` + strings.Repeat("x", response.MaxBodyBytes) + `"}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst bindTarget
			var ok bool
			rec := serve(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), func(w http.ResponseWriter, r *http.Request) {
				ok = response.Bind(w, r, &dst)
			})

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "acme", dst.Name)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contain)
		})
	}
}
