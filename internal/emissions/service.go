package emissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MadSCI-entist/the-green-co/internal/api/models"
)

// History limits.
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// Service runs calculations and serves a user's calculation history.
type Service struct {
	repo Repository
	calc *Calculator
	now  func() time.Time
}

// NewService creates a new emissions service.
func NewService(repo Repository, calc *Calculator) *Service {
	return &Service{repo: repo, calc: calc, now: time.Now}
}

// Factors returns the factor set used for new calculations.
func (s *Service) Factors() models.EmissionFactors {
	f := s.calc.Factors()
	return models.EmissionFactors{
		Cars:              f.Cars,
		Trucks:            f.Trucks,
		Planes:            f.Planes,
		Forklifts:         f.Forklifts,
		Heating:           f.Heating,
		LightingCoolingIT: f.LightingCoolingIT,
		EVFactor:          f.EVFactor,
	}
}

// Calculate computes emissions for input and stores the result as a new record owned by userID.
// The input is expected to be validated already.
func (s *Service) Calculate(ctx context.Context, userID string, input *models.EmissionInput) (*models.EmissionRecord, error) {
	in := Input{
		CarKm:                input.CarKm,
		TruckKm:              input.TruckKm,
		PlaneHours:           input.PlaneHours,
		ForkliftHours:        input.ForkliftHours,
		HeatingKwh:           input.HeatingKwh,
		LightingCoolingItKwh: input.LightingCoolingItKwh,
		SubcontractorsTons:   input.SubcontractorsTons,
		EVShare:              input.EVShare,
		KmReduction:          input.KmReduction,
		PlaneLoadFactor:      input.PlaneLoadFactor,
	}

	record := &Record{
		ID:        "rec_" + uuid.New().String()[:22],
		UserID:    userID,
		Input:     in,
		Result:    s.calc.Calculate(in),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("storing emission record: %w", err)
	}

	result := ToAPIRecord(record)
	return &result, nil
}

// Latest returns the user's most recent record, or ErrRecordNotFound.
func (s *Service) Latest(ctx context.Context, userID string) (*models.EmissionRecord, error) {
	record, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := ToAPIRecord(record)
	return &result, nil
}

// History returns the user's last limit records, newest first.
// A non-positive limit means DefaultHistoryLimit; limits above MaxHistoryLimit are capped.
func (s *Service) History(ctx context.Context, userID string, limit int) (*models.EmissionHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.EmissionRecord, 0, len(records))
	for _, rec := range records {
		items = append(items, ToAPIRecord(rec))
	}

	return &models.EmissionHistory{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// ToAPIRecord converts a domain Record to its wire form.
func ToAPIRecord(rec *Record) models.EmissionRecord {
	in, res := rec.Input, rec.Result
	return models.EmissionRecord{
		ID:     rec.ID,
		UserID: rec.UserID,

		CarKm:                in.CarKm,
		TruckKm:              in.TruckKm,
		PlaneHours:           in.PlaneHours,
		ForkliftHours:        in.ForkliftHours,
		HeatingKwh:           in.HeatingKwh,
		LightingCoolingItKwh: in.LightingCoolingItKwh,
		SubcontractorsTons:   in.SubcontractorsTons,
		EVShare:              in.EVShare,
		KmReduction:          in.KmReduction,
		PlaneLoadFactor:      in.PlaneLoadFactor,

		BaselineCars:              res.BaselineCars,
		BaselineTrucks:            res.BaselineTrucks,
		BaselinePlanes:            res.BaselinePlanes,
		BaselineForklifts:         res.BaselineForklifts,
		BaselineHeating:           res.BaselineHeating,
		BaselineLightingCoolingIt: res.BaselineLightingCoolingIt,
		BaselineSubcontractors:    res.BaselineSubcontractors,
		BaselineTotal:             res.BaselineTotal,

		OptimizedCars:              res.OptimizedCars,
		OptimizedTrucks:            res.OptimizedTrucks,
		OptimizedPlanes:            res.OptimizedPlanes,
		OptimizedForklifts:         res.OptimizedForklifts,
		OptimizedHeating:           res.OptimizedHeating,
		OptimizedLightingCoolingIt: res.OptimizedLightingCoolingIt,
		OptimizedSubcontractors:    res.OptimizedSubcontractors,
		OptimizedTotal:             res.OptimizedTotal,

		CreatedAt: models.Timestamp(rec.CreatedAt),
	}
}
