// internal/domain/roster/model.go
package roster

import (
	"errors"
	"fmt"
	"time"

	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/signup"
)

var (
	ErrCapacityExceeded = errors.New("position has reached maximum capacity")
	ErrPositionClosed   = errors.New("position is closed")
	ErrSignUpNotFound   = errors.New("sign-up not found")
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
)

// User is a dashboard account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}

// CapacityError is a sign-up rejected because its position has no room.
// It unwraps to ErrCapacityExceeded or ErrPositionClosed.
type CapacityError struct {
	Position signup.Position
	Limit    int
}

func (e *CapacityError) Error() string {
	if e.Limit == 0 {
		return fmt.Sprintf("Position %s is closed (maxCapacity(0))", e.Position)
	}
	return fmt.Sprintf("Position %s has reached maximum capacity", e.Position)
}

func (e *CapacityError) Unwrap() error {
	if e.Limit == 0 {
		return ErrPositionClosed
	}
	return ErrCapacityExceeded
}

// RoleRequest is the body of a role assignment.
type RoleRequest struct {
	Role auth.Role `json:"role" validate:"required,oneof=admin user guest"`
}
