package emissions

import "context"

// Repository defines the interface for emission record persistence.
type Repository interface {
	// Create stores a new record.
	Create(ctx context.Context, record *Record) error

	// Latest returns the most recently created record for a user.
	// Returns ErrRecordNotFound if the user has no records.
	Latest(ctx context.Context, userID string) (*Record, error)

	// List returns up to limit records for a user, newest first.
	List(ctx context.Context, userID string, limit int) ([]*Record, error)
}
