package company

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

// NewPostgresRepository creates a new PostgreSQL company profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const profileColumns = `
	user_id, company_name, sector,
	total_distance, load_efficiency, renewable_share,
	created_at, updated_at`

// Get retrieves the profile owned by a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM company_profiles
		WHERE user_id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// Upsert creates the profile or replaces its mutable fields.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO company_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			sector = EXCLUDED.sector,
			total_distance = EXCLUDED.total_distance,
			load_efficiency = EXCLUDED.load_efficiency,
			renewable_share = EXCLUDED.renewable_share,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		p.UserID, p.CompanyName, p.Sector,
		p.TotalDistance, p.LoadEfficiency, p.RenewableShare,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// List returns every profile ordered by user ID.
func (r *PostgresRepository) List(ctx context.Context) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM company_profiles
		ORDER BY user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID, &p.CompanyName, &p.Sector,
		&p.TotalDistance, &p.LoadEfficiency, &p.RenewableShare,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
