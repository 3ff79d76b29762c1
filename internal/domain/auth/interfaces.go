// internal/domain/auth/interfaces.go
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyAuthenticated is returned by an Identity when the caller presents
// a token the provider still considers signed in.
var ErrAlreadyAuthenticated = errors.New("User is already authenticated")

type Validator interface {
	Validate(interface{}) error
}

// Identity is the external identity provider.
type Identity interface {
	Login(ctx context.Context, currentToken, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Whoami(ctx context.Context, token string) (*Caller, error)
	IsCallerAdmin(ctx context.Context, token string) (bool, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, s Session, duration time.Duration) (string, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
