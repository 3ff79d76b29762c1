// internal/repository/user.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/roster"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, username, passwordHash string, role auth.Role) (*roster.User, error) {
	var user roster.User
	var storedRole string
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at`,
		username, passwordHash, string(role)).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &storedRole, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, roster.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.Role = auth.Role(storedRole)
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*roster.User, error) {
	var user roster.User
	var storedRole string
	err := r.db.QueryRow(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1",
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &storedRole, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, roster.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Role = auth.Role(storedRole)
	return &user, nil
}

func (r *UserRepository) SetRole(ctx context.Context, username string, role auth.Role) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET role = $2 WHERE username = $1", username, string(role))
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrUserNotFound
	}
	return nil
}

// RevokeToken records a signed-out token. Expired entries are pruned on the way.
func (r *UserRepository) RevokeToken(ctx context.Context, tokenID string, expires time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM revoked_tokens WHERE expires_at < now()"); err != nil {
		return fmt.Errorf("prune revoked tokens: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2) ON CONFLICT (token_id) DO NOTHING",
		tokenID, expires); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)", tokenID).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

var _ roster.UserRepository = (*UserRepository)(nil)
