package emissions

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]*Record // insertion order
}

// NewInMemoryRepository creates a new in-memory emission record repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byUser: make(map[string][]*Record),
	}
}

// Create stores a new record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.byUser[record.UserID] = append(r.byUser[record.UserID], &cpy)
	return nil
}

// Latest returns the most recently created record for a user.
// Records sharing a timestamp resolve to the one stored last.
func (r *InMemoryRepository) Latest(_ context.Context, userID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.byUser[userID]
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}

	latest := records[0]
	for _, rec := range records[1:] {
		if !rec.CreatedAt.Before(latest.CreatedAt) {
			latest = rec
		}
	}

	cpy := *latest
	return &cpy, nil
}

// List returns up to limit records for a user, newest first.
// Records sharing a timestamp are ordered last-stored first.
func (r *InMemoryRepository) List(_ context.Context, userID string, limit int) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		return []*Record{}, nil
	}

	records := r.byUser[userID]
	sorted := make([]*Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		sorted = append(sorted, records[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	out := make([]*Record, 0, min(limit, len(sorted)))
	for _, rec := range sorted[:min(limit, len(sorted))] {
		cpy := *rec
		out = append(out, &cpy)
	}
	return out, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
