package signup

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    int
	requests []Request
	id       RecordID
	err      error
	capacity []PositionCapacity

	started chan struct{}
	release chan struct{}
}

func (b *fakeBackend) SubmitSignUp(ctx context.Context, req Request) (RecordID, error) {
	b.mu.Lock()
	b.calls++
	b.requests = append(b.requests, req)
	id, err := b.id, b.err
	b.mu.Unlock()

	if b.started != nil {
		b.started <- struct{}{}
	}
	if b.release != nil {
		<-b.release
	}
	return id, err
}

func (b *fakeBackend) GetCapacity(ctx context.Context) ([]PositionCapacity, error) {
	return b.capacity, nil
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type fakeInvalidator struct {
	mu    sync.Mutex
	count int
}

func (i *fakeInvalidator) Invalidate(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.count++
	return nil
}

type memoryFormStore struct {
	mu       sync.Mutex
	sessions map[string]map[Position]bool
	locks    map[string]string
	seq      int
}

func newMemoryFormStore() *memoryFormStore {
	return &memoryFormStore{
		sessions: make(map[string]map[Position]bool),
		locks:    make(map[string]string),
	}
}

func (s *memoryFormStore) LoadCapacity(ctx context.Context, sessionID string) (*CapacityState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	full, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	state := NewCapacityState()
	for pos := range full {
		state.MarkFull(pos)
	}
	return state, true, nil
}

func (s *memoryFormStore) InitCapacity(ctx context.Context, sessionID string, state *CapacityState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	full := make(map[Position]bool)
	for _, pos := range state.Full() {
		full[pos] = true
	}
	s.sessions[sessionID] = full
	return nil
}

func (s *memoryFormStore) SaveFull(ctx context.Context, sessionID string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sessionID] == nil {
		s.sessions[sessionID] = make(map[Position]bool)
	}
	s.sessions[sessionID][pos] = true
	return nil
}

func (s *memoryFormStore) AcquireSubmit(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[sessionID] != "" {
		return "", nil
	}
	s.seq++
	token := fmt.Sprintf("lock-%d", s.seq)
	s.locks[sessionID] = token
	return token, nil
}

func (s *memoryFormStore) ReleaseSubmit(ctx context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[sessionID] == token {
		delete(s.locks, sessionID)
	}
	return nil
}

func (s *memoryFormStore) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	delete(s.locks, sessionID)
	return nil
}

func newTestValidator(t *testing.T) *FieldValidator {
	t.Helper()
	v, err := NewFieldValidator(validator.New(), AgeBounds{Min: 14, Max: 40})
	if err != nil {
		t.Fatalf("NewFieldValidator() error = %v", err)
	}
	return v
}

func jordanForm() Form {
	return Form{
		Name:            "Jordan Williams",
		Email:           "jordan@example.com",
		Phone:           "5551234567",
		Age:             "22",
		Position:        "center",
		ExperienceLevel: "beginner",
	}
}

var testSlots = Slots{Guard: 1, Forward: 2, Center: 2}
