// internal/domain/roster/interfaces.go
package roster

import (
	"context"
	"time"

	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/signup"
)

// SignUpRepository stores sign-ups. Insert enforces the position limit and
// returns a *CapacityError when it is reached.
type SignUpRepository interface {
	Insert(ctx context.Context, req signup.Request) (signup.RecordID, error)
	List(ctx context.Context) ([]signup.Record, error)
	Get(ctx context.Context, id signup.RecordID) (*signup.Record, error)
	Capacity(ctx context.Context) ([]signup.PositionCapacity, error)
	SetCapacity(ctx context.Context, pos signup.Position, limit int) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string, role auth.Role) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	SetRole(ctx context.Context, username string, role auth.Role) error
	RevokeToken(ctx context.Context, tokenID string, expires time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}
