package company

import (
	"context"
	"fmt"
	"time"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
)

// Service handles company profile operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new company profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the profile owned by userID, or ErrProfileNotFound.
func (s *Service) Get(ctx context.Context, userID string) (*models.CompanyProfile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := toAPIProfile(p)
	return &result, nil
}

// Upsert creates or fully replaces the profile owned by userID.
// The owner always comes from userID; the input carries no identity.
func (s *Service) Upsert(ctx context.Context, userID string, input *models.CompanyProfileInput) (*models.CompanyProfile, error) {
	now := s.now()

	p := &Profile{
		UserID:         userID,
		CompanyName:    input.CompanyName,
		Sector:         input.Sector,
		TotalDistance:  input.TotalDistance,
		LoadEfficiency: input.LoadEfficiency,
		RenewableShare: input.RenewableShare,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upserting company profile: %w", err)
	}

	// Re-read so the response carries the preserved creation time.
	return s.Get(ctx, userID)
}

// List returns every stored profile ordered by user ID.
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

func toAPIProfile(p *Profile) models.CompanyProfile {
	return models.CompanyProfile{
		UserID:         p.UserID,
		CompanyName:    p.CompanyName,
		Sector:         p.Sector,
		TotalDistance:  p.TotalDistance,
		LoadEfficiency: p.LoadEfficiency,
		RenewableShare: p.RenewableShare,
		CreatedAt:      models.Timestamp(p.CreatedAt),
		UpdatedAt:      models.Timestamp(p.UpdatedAt),
	}
}
