// internal/domain/signup/interfaces.go
package signup

import (
	"context"
	"fmt"
)

// Backend is the remote roster service that owns sign-up records.
type Backend interface {
	SubmitSignUp(ctx context.Context, req Request) (RecordID, error)
	GetCapacity(ctx context.Context) ([]PositionCapacity, error)
}

// Invalidator is told when previously fetched sign-up listings are stale.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// FormStore keeps per-session form state between requests.
type FormStore interface {
	LoadCapacity(ctx context.Context, sessionID string) (*CapacityState, bool, error)
	InitCapacity(ctx context.Context, sessionID string, state *CapacityState) error
	SaveFull(ctx context.Context, sessionID string, pos Position) error
	// AcquireSubmit returns an owner token, or "" when a submission is pending.
	AcquireSubmit(ctx context.Context, sessionID string) (string, error)
	ReleaseSubmit(ctx context.Context, sessionID, token string) error
	Reset(ctx context.Context, sessionID string) error
}

// BackendError is a rejection reported by the backend itself, as opposed to a
// transport failure.
type BackendError struct {
	Status  int
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}
