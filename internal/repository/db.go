// internal/repository/db.go
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool constructs a pgx connection pool using the provided connection string.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, fmt.Errorf("db: empty connection string")
	}
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("db: parse config: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS position_capacity (
		position     TEXT PRIMARY KEY,
		max_capacity INTEGER NOT NULL CHECK (max_capacity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS signups (
		id               BIGSERIAL PRIMARY KEY,
		name             TEXT NOT NULL,
		email            TEXT NOT NULL,
		phone            TEXT NOT NULL,
		age              INTEGER NOT NULL,
		position         TEXT NOT NULL REFERENCES position_capacity (position),
		experience_level TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS signups_position_idx ON signups (position)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
		token_id   TEXT PRIMARY KEY,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables the roster backend needs.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
