package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "panthers-signup/pkg/errors"
)

type fakeIdentity struct {
	logins      []string
	logouts     []string
	alreadyOnce bool
	token       string
	admin       bool
	loginErr    error
}

func (f *fakeIdentity) Login(ctx context.Context, currentToken, username, password string) (string, error) {
	f.logins = append(f.logins, currentToken)
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if f.alreadyOnce && currentToken != "" {
		return "", ErrAlreadyAuthenticated
	}
	return f.token, nil
}

func (f *fakeIdentity) Logout(ctx context.Context, token string) error {
	f.logouts = append(f.logouts, token)
	return nil
}

func (f *fakeIdentity) Whoami(ctx context.Context, token string) (*Caller, error) {
	return &Caller{Username: "coach", Role: RoleUser}, nil
}

func (f *fakeIdentity) IsCallerAdmin(ctx context.Context, token string) (bool, error) {
	return f.admin, nil
}

type fakeSessionStore struct {
	sessions map[string]Session
	next     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]Session)}
}

func (s *fakeSessionStore) CreateSession(ctx context.Context, sess Session, d time.Duration) (string, error) {
	s.next++
	id := "sess-" + string(rune('0'+s.next))
	s.sessions[id] = sess
	return id, nil
}

func (s *fakeSessionStore) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.ID = id
	return &sess, nil
}

func (s *fakeSessionStore) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newTestAuthService(id Identity, store SessionStore) *AuthService {
	return NewAuthService(id, store, NewValidator(validator.New()), Options{SessionTTL: time.Hour})
}

func TestAuthService_LoginCreatesSession(t *testing.T) {
	id := &fakeIdentity{token: "tok-1"}
	store := newFakeSessionStore()
	svc := newTestAuthService(id, store)

	sess, err := svc.Login(context.Background(), "", &LoginRequest{Username: "coach", Password: "secret"})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if sess.ID == "" || sess.Token != "tok-1" || sess.Username != "coach" {
		t.Fatalf("login: unexpected session %+v", sess)
	}

	current, err := svc.Current(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("current: unexpected error: %v", err)
	}
	if current.Token != "tok-1" {
		t.Fatalf("current: expected token tok-1 got %q", current.Token)
	}
}

func TestAuthService_LoginValidation(t *testing.T) {
	id := &fakeIdentity{token: "tok-1"}
	svc := newTestAuthService(id, newFakeSessionStore())

	_, err := svc.Login(context.Background(), "", &LoginRequest{Username: "coach"})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["password"] == "" {
		t.Fatalf("expected password field message, got %v", verr.Fields)
	}
	if len(id.logins) != 0 {
		t.Fatalf("identity must not be called for invalid input")
	}
}

func TestAuthService_LoginRetriesAfterAlreadyAuthenticated(t *testing.T) {
	id := &fakeIdentity{token: "tok-2", alreadyOnce: true}
	store := newFakeSessionStore()
	store.sessions["stale"] = Session{Username: "coach", Token: "tok-old"}
	svc := NewAuthService(id, store, NewValidator(validator.New()), Options{RetryDelay: time.Millisecond})

	sess, err := svc.Login(context.Background(), "stale", &LoginRequest{Username: "coach", Password: "secret"})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if sess.Token != "tok-2" {
		t.Fatalf("expected retried token tok-2 got %q", sess.Token)
	}
	if len(id.logins) != 2 || id.logins[0] != "tok-old" || id.logins[1] != "" {
		t.Fatalf("expected two login attempts, got %v", id.logins)
	}
	if len(id.logouts) != 1 || id.logouts[0] != "tok-old" {
		t.Fatalf("expected stale token logout, got %v", id.logouts)
	}
	if _, ok := store.sessions["stale"]; ok {
		t.Fatal("stale session should be deleted")
	}
}

func TestAuthService_CurrentWithoutSession(t *testing.T) {
	svc := newTestAuthService(&fakeIdentity{}, newFakeSessionStore())

	for _, id := range []string{"", "missing"} {
		_, err := svc.Current(context.Background(), id)
		var authErr *apperrors.AuthenticationError
		if !errors.As(err, &authErr) {
			t.Fatalf("Current(%q): expected AuthenticationError, got %v", id, err)
		}
	}
}

func TestAuthService_Logout(t *testing.T) {
	id := &fakeIdentity{token: "tok-1"}
	store := newFakeSessionStore()
	svc := newTestAuthService(id, store)

	sess, err := svc.Login(context.Background(), "", &LoginRequest{Username: "coach", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(id.logouts) != 1 {
		t.Fatalf("expected identity logout, got %v", id.logouts)
	}
	if _, err := svc.Current(context.Background(), sess.ID); err == nil {
		t.Fatal("session should be gone after logout")
	}
	if err := svc.Logout(context.Background(), "unknown"); err != nil {
		t.Fatalf("logout of unknown session should be a no-op, got %v", err)
	}
}

func TestAuthService_IsCallerAdmin(t *testing.T) {
	svc := newTestAuthService(&fakeIdentity{admin: true}, newFakeSessionStore())
	ok, err := svc.IsCallerAdmin(context.Background(), &Session{Token: "t"})
	if err != nil || !ok {
		t.Fatalf("IsCallerAdmin() = %v, %v", ok, err)
	}
}
