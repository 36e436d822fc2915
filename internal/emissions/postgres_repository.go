package emissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL emission record repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const recordColumns = `
	id, user_id,
	car_km, truck_km, plane_hours, forklift_hours, heating_kwh,
	lighting_cooling_it_kwh, subcontractors_tons,
	ev_share, km_reduction, plane_load_factor,
	baseline_cars, baseline_trucks, baseline_planes, baseline_forklifts,
	baseline_heating, baseline_lighting_cooling_it, baseline_subcontractors, baseline_total,
	optimized_cars, optimized_trucks, optimized_planes, optimized_forklifts,
	optimized_heating, optimized_lighting_cooling_it, optimized_subcontractors, optimized_total,
	created_at`

// newestFirst orders a user's records by creation time. seq breaks ties in
// insertion order.
const newestFirst = `created_at DESC, seq DESC`

// Create stores a new record.
func (r *PostgresRepository) Create(ctx context.Context, rec *Record) error {
	query := `INSERT INTO emission_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29)`

	in, res := rec.Input, rec.Result
	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.UserID,
		in.CarKm, in.TruckKm, in.PlaneHours, in.ForkliftHours, in.HeatingKwh,
		in.LightingCoolingItKwh, in.SubcontractorsTons,
		in.EVShare, in.KmReduction, in.PlaneLoadFactor,
		res.BaselineCars, res.BaselineTrucks, res.BaselinePlanes, res.BaselineForklifts,
		res.BaselineHeating, res.BaselineLightingCoolingIt, res.BaselineSubcontractors, res.BaselineTotal,
		res.OptimizedCars, res.OptimizedTrucks, res.OptimizedPlanes, res.OptimizedForklifts,
		res.OptimizedHeating, res.OptimizedLightingCoolingIt, res.OptimizedSubcontractors, res.OptimizedTotal,
		rec.CreatedAt,
	)
	return err
}

// Latest returns the most recently created record for a user.
// Records sharing a timestamp resolve to the one stored last.
func (r *PostgresRepository) Latest(ctx context.Context, userID string) (*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM emission_records
		WHERE user_id = $1
		ORDER BY ` + newestFirst + `
		LIMIT 1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns up to limit records for a user, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM emission_records
		WHERE user_id = $1
		ORDER BY ` + newestFirst + `
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// scanRecord scans one row selected with recordColumns.
func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	in, res := &rec.Input, &rec.Result

	err := row.Scan(
		&rec.ID, &rec.UserID,
		&in.CarKm, &in.TruckKm, &in.PlaneHours, &in.ForkliftHours, &in.HeatingKwh,
		&in.LightingCoolingItKwh, &in.SubcontractorsTons,
		&in.EVShare, &in.KmReduction, &in.PlaneLoadFactor,
		&res.BaselineCars, &res.BaselineTrucks, &res.BaselinePlanes, &res.BaselineForklifts,
		&res.BaselineHeating, &res.BaselineLightingCoolingIt, &res.BaselineSubcontractors, &res.BaselineTotal,
		&res.OptimizedCars, &res.OptimizedTrucks, &res.OptimizedPlanes, &res.OptimizedForklifts,
		&res.OptimizedHeating, &res.OptimizedLightingCoolingIt, &res.OptimizedSubcontractors, &res.OptimizedTotal,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
