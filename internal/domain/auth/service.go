// internal/domain/auth/service.go
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "panthers-signup/pkg/errors"
)

type Options struct {
	SessionTTL time.Duration
	// RetryDelay is the pause before retrying a login that raced an existing
	// identity.
	RetryDelay time.Duration
}

// AuthService signs dashboard visitors in against the external identity
// provider and keeps their bearer tokens server-side.
type AuthService struct {
	identity  Identity
	sessions  SessionStore
	validator Validator
	opts      Options
}

func NewAuthService(id Identity, ss SessionStore, v Validator, opts Options) *AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		identity:  id,
		sessions:  ss,
		validator: v,
		opts:      opts,
	}
}

// Login authenticates and returns a new session. A stale session presented
// alongside the credentials is cleared and the login retried once.
func (s *AuthService) Login(ctx context.Context, currentSessionID string, req *LoginRequest) (*Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var currentToken string
	if currentSessionID != "" {
		if sess, err := s.sessions.GetSession(ctx, currentSessionID); err == nil {
			currentToken = sess.Token
		}
	}

	token, err := s.identity.Login(ctx, currentToken, req.Username, req.Password)
	if errors.Is(err, ErrAlreadyAuthenticated) {
		s.clear(ctx, currentSessionID, currentToken)
		if err := sleep(ctx, s.opts.RetryDelay); err != nil {
			return nil, err
		}
		token, err = s.identity.Login(ctx, "", req.Username, req.Password)
	}
	if err != nil {
		return nil, err
	}

	sess := Session{Username: req.Username, Token: token}
	id, err := s.sessions.CreateSession(ctx, sess, s.opts.SessionTTL)
	if err != nil {
		log.Printf("create session: %v", err)
		return nil, apperrors.NewInternalError()
	}
	sess.ID = id
	return &sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.NewInternalError()
	}
	s.clear(ctx, sessionID, sess.Token)
	return nil
}

// Current returns the signed-in session or an AuthenticationError.
func (s *AuthService) Current(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.NewAuthenticationError("sign in required")
	}
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperrors.NewAuthenticationError("sign in required")
	}
	if err != nil {
		log.Printf("load session: %v", err)
		return nil, apperrors.NewInternalError()
	}
	return sess, nil
}

func (s *AuthService) Whoami(ctx context.Context, sess *Session) (*Caller, error) {
	return s.identity.Whoami(ctx, sess.Token)
}

func (s *AuthService) IsCallerAdmin(ctx context.Context, sess *Session) (bool, error) {
	return s.identity.IsCallerAdmin(ctx, sess.Token)
}

func (s *AuthService) clear(ctx context.Context, sessionID, token string) {
	if token != "" {
		if err := s.identity.Logout(ctx, token); err != nil {
			log.Printf("identity logout: %v", err)
		}
	}
	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			log.Printf("delete session %s: %v", sessionID, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
