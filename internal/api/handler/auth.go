package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
	"github.com/MadSCI-entist/the-green-co/internal/api/response"
	"github.com/MadSCI-entist/the-green-co/internal/auth"
)

// AuthService is the part of *auth.Service the auth endpoints use.
type AuthService interface {
	DevAuthenticate(ctx context.Context, req *auth.DevAuthenticateRequest) (*auth.TokenResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenResponse, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	RevokeAllTokens(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth AuthService
	log  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, log: log}
}

// DevLogin handles POST /v1/auth/dev. It is mounted only when dev auth is enabled.
// An empty body creates a fresh user.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.DevAuthenticateRequest
	if r.ContentLength != 0 && !response.Bind(w, r, &req) {
		return
	}

	tokens, err := h.auth.DevAuthenticate(r.Context(), &req)
	if err != nil {
		internalError(w, r, h.log, err, "dev authentication failed")
		return
	}
	response.JSON(w, r, http.StatusOK, tokens)
}

// RefreshToken handles POST /v1/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if !response.Bind(w, r, &req) {
		return
	}

	tokens, err := h.auth.RefreshAccessToken(r.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		response.Unauthorized(w, r, "invalid refresh token")
	case errors.Is(err, auth.ErrRefreshTokenExpired):
		response.Unauthorized(w, r, "refresh token has expired")
	case errors.Is(err, auth.ErrUserNotFound):
		response.Unauthorized(w, r, "user not found")
	case err != nil:
		internalError(w, r, h.log, err, "token refresh failed")
	default:
		response.JSON(w, r, http.StatusOK, tokens)
	}
}

// Logout handles POST /v1/auth/logout by revoking one refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if !response.Bind(w, r, &req) {
		return
	}

	if err := h.auth.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
		internalError(w, r, h.log, err, "logout failed")
		return
	}
	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all by revoking every refresh token of the caller.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.auth.RevokeAllTokens(r.Context(), userID); err != nil {
		internalError(w, r, h.log, err, "logout failed")
		return
	}
	response.NoContent(w, r)
}

// CurrentUser handles GET /v1/auth/user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(r.Context(), userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		response.NotFound(w, r, "user not found")
		return
	}
	if err != nil {
		internalError(w, r, h.log, err, "loading user failed")
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}
