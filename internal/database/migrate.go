package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migration is one versioned schema change. Migrations are append-only.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrations returns every schema migration in version order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			SQL: `
CREATE TABLE IF NOT EXISTS users (
	id                TEXT PRIMARY KEY,
	email             TEXT NOT NULL DEFAULT '',
	first_name        TEXT NOT NULL DEFAULT '',
	last_name         TEXT NOT NULL DEFAULT '',
	profile_image_url TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		},
		{
			Version: 2,
			Name:    "create_refresh_tokens",
			SQL: `
CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL UNIQUE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	revoked_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS refresh_tokens_user_id_idx ON refresh_tokens (user_id)`,
		},
		{
			Version: 3,
			Name:    "create_company_profiles",
			SQL: `
CREATE TABLE IF NOT EXISTS company_profiles (
	user_id         TEXT PRIMARY KEY,
	company_name    TEXT NOT NULL,
	sector          TEXT NOT NULL,
	total_distance  DOUBLE PRECISION NOT NULL DEFAULT 0,
	load_efficiency DOUBLE PRECISION NOT NULL DEFAULT 0,
	renewable_share DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		},
		{
			Version: 4,
			Name:    "create_emission_records",
			SQL: `
CREATE TABLE IF NOT EXISTS emission_records (
	id                            TEXT PRIMARY KEY,
	user_id                       TEXT NOT NULL,
	car_km                        DOUBLE PRECISION NOT NULL,
	truck_km                      DOUBLE PRECISION NOT NULL,
	plane_hours                   DOUBLE PRECISION NOT NULL,
	forklift_hours                DOUBLE PRECISION NOT NULL,
	heating_kwh                   DOUBLE PRECISION NOT NULL,
	lighting_cooling_it_kwh       DOUBLE PRECISION NOT NULL,
	subcontractors_tons           DOUBLE PRECISION NOT NULL,
	ev_share                      DOUBLE PRECISION NOT NULL,
	km_reduction                  DOUBLE PRECISION NOT NULL,
	plane_load_factor             DOUBLE PRECISION NOT NULL,
	baseline_cars                 DOUBLE PRECISION NOT NULL,
	baseline_trucks               DOUBLE PRECISION NOT NULL,
	baseline_planes               DOUBLE PRECISION NOT NULL,
	baseline_forklifts            DOUBLE PRECISION NOT NULL,
	baseline_heating              DOUBLE PRECISION NOT NULL,
	baseline_lighting_cooling_it  DOUBLE PRECISION NOT NULL,
	baseline_subcontractors       DOUBLE PRECISION NOT NULL,
	baseline_total                DOUBLE PRECISION NOT NULL,
	optimized_cars                DOUBLE PRECISION NOT NULL,
	optimized_trucks              DOUBLE PRECISION NOT NULL,
	optimized_planes              DOUBLE PRECISION NOT NULL,
	optimized_forklifts           DOUBLE PRECISION NOT NULL,
	optimized_heating             DOUBLE PRECISION NOT NULL,
	optimized_lighting_cooling_it DOUBLE PRECISION NOT NULL,
	optimized_subcontractors      DOUBLE PRECISION NOT NULL,
	optimized_total               DOUBLE PRECISION NOT NULL,
	created_at                    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS emission_records_user_created_idx
	ON emission_records (user_id, created_at DESC, id DESC)`,
		},
		{
			Version: 5,
			Name:    "add_emission_records_seq",
			SQL: `
ALTER TABLE emission_records ADD COLUMN IF NOT EXISTS seq BIGSERIAL;
DROP INDEX IF EXISTS emission_records_user_created_idx;
CREATE INDEX IF NOT EXISTS emission_records_user_created_seq_idx
	ON emission_records (user_id, created_at DESC, seq DESC)`,
		},
	}
}

// Migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("query applied migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, m := range Migrations() {
		if applied[m.Version] {
			continue
		}

		err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.Version, m.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}

		logger.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Msg("applied database migration")
	}

	return nil
}
