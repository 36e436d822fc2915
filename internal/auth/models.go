// Package auth issues and validates API tokens and keeps the user accounts they belong to.
package auth

import (
	"time"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
)

// User is an account known to the API.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ToAPI converts the user to its wire form.
func (u *User) ToAPI() *models.User {
	return &models.User{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       models.Timestamp(u.CreatedAt),
		UpdatedAt:       models.Timestamp(u.UpdatedAt),
	}
}

// TokenResponse is returned after a successful sign-in or refresh.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *models.User `json:"user"`
}

// RefreshTokenRequest is the body of the refresh and logout endpoints.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// DevAuthenticateRequest is the body of the development sign-in endpoint.
type DevAuthenticateRequest struct {
	// UserID selects an existing user. If empty or unknown, a new user is created.
	UserID          string `json:"userId,omitempty" validate:"omitempty,max=64"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName       string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName        string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	ProfileImageURL string `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
}
