package company

import "context"

// Repository defines the interface for company profile persistence.
type Repository interface {
	// Get retrieves the profile owned by a user.
	// Returns ErrProfileNotFound if the user has no profile.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Upsert creates the profile or replaces its mutable fields.
	// CreatedAt of an existing profile is preserved.
	Upsert(ctx context.Context, profile *Profile) error

	// List returns every profile ordered by user ID.
	List(ctx context.Context) ([]*Profile, error)
}
