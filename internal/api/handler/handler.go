// Package handler provides HTTP handlers for the Green Co. API.
package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/middleware"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
)

// requireUser returns the authenticated user ID, writing a 401 when absent.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return "", false
	}
	return userID, true
}

// internalError logs err with request context and writes a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("user_id", middleware.GetUserID(r.Context())).
		Msg(msg)
	response.InternalError(w, r, msg)
}
