// Package company stores the operational profile each user declares for their company.
package company

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("company profile not found")
)

// Profile is the company profile owned by exactly one user.
type Profile struct {
	UserID      string
	CompanyName string
	Sector      string

	// TotalDistance is the declared distance travelled, in km.
	TotalDistance float64

	// LoadEfficiency is how fully transport capacity is used.
	LoadEfficiency float64

	// RenewableShare is the fraction (0-1) of energy sourced from renewables.
	RenewableShare float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
