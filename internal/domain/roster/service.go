// internal/domain/roster/service.go
package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/signup"
	apperrors "panthers-signup/pkg/errors"
)

const messageAdminOnly = "Unauthorized: Only admins can view all sign-ups"

// Service is the roster backend: it owns sign-ups, position limits and
// dashboard accounts.
type Service struct {
	signups   SignUpRepository
	users     UserRepository
	fields    *signup.FieldValidator
	validator auth.Validator
	tokens    *Tokens
}

func NewService(signups SignUpRepository, users UserRepository, fields *signup.FieldValidator, v auth.Validator, tokens *Tokens) *Service {
	return &Service{
		signups:   signups,
		users:     users,
		fields:    fields,
		validator: v,
		tokens:    tokens,
	}
}

// Submit stores a sign-up after running the same field rules as the form.
func (s *Service) Submit(ctx context.Context, req signup.Request) (signup.RecordID, error) {
	f := signup.Form{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Age:             strconv.Itoa(req.Age),
		Position:        string(req.Position),
		ExperienceLevel: string(req.ExperienceLevel),
	}
	f.Normalize()
	if err := s.fields.ValidateForm(f); err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			verr.Message = firstMessage(verr.Fields)
		}
		return 0, err
	}
	req.Position = signup.Position(f.Position)
	req.ExperienceLevel = signup.ExperienceLevel(f.ExperienceLevel)
	return s.signups.Insert(ctx, req)
}

func (s *Service) List(ctx context.Context, caller *auth.Caller) ([]signup.Record, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.signups.List(ctx)
}

func (s *Service) Get(ctx context.Context, caller *auth.Caller, id signup.RecordID) (*signup.Record, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.signups.Get(ctx, id)
}

func (s *Service) Capacity(ctx context.Context) ([]signup.PositionCapacity, error) {
	return s.signups.Capacity(ctx)
}

// Login checks credentials and issues a token. A still-valid currentToken is
// refused with auth.ErrAlreadyAuthenticated.
func (s *Service) Login(ctx context.Context, currentToken string, req *auth.LoginRequest) (string, error) {
	if err := s.validator.Validate(req); err != nil {
		return "", err
	}
	if currentToken != "" {
		if _, err := s.Authenticate(ctx, currentToken); err == nil {
			return "", auth.ErrAlreadyAuthenticated
		}
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, ErrUserNotFound) {
		return "", apperrors.NewAuthenticationError("invalid credentials")
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", apperrors.NewAuthenticationError("invalid credentials")
	}
	return s.tokens.Issue(user.Username)
}

// Logout revokes token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperrors.NewAuthenticationError("invalid token")
	}
	return s.users.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate resolves a bearer token to its caller with the current role.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Caller, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid token")
	}
	revoked, err := s.users.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.NewAuthenticationError("token revoked")
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.NewAuthenticationError("unknown user")
	}
	if err != nil {
		return nil, err
	}
	return &auth.Caller{Username: user.Username, Role: user.Role}, nil
}

func (s *Service) AssignRole(ctx context.Context, caller *auth.Caller, username string, req *RoleRequest) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	return s.users.SetRole(ctx, username, req.Role)
}

// Register creates an account with the user role. Only admins may add
// accounts.
func (s *Service) Register(ctx context.Context, caller *auth.Caller, req *auth.LoginRequest) (*User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.Username, req.Password, auth.RoleUser)
}

// Bootstrap makes sure username exists as an admin. Empty credentials are a
// no-op.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.createUser(ctx, username, password, auth.RoleAdmin)
	if errors.Is(err, ErrUserExists) {
		return s.users.SetRole(ctx, username, auth.RoleAdmin)
	}
	if err == nil {
		log.Printf("bootstrapped admin %q", username)
	}
	return err
}

// SeedCapacity sets the limit of every position.
func (s *Service) SeedCapacity(ctx context.Context, slots signup.Slots) error {
	for _, p := range signup.Positions {
		if err := s.signups.SetCapacity(ctx, p, slots.For(p)); err != nil {
			return fmt.Errorf("seed %s capacity: %w", p, err)
		}
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, username, password string, role auth.Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, username, string(hash), role)
}

func requireAdmin(caller *auth.Caller) error {
	if caller == nil {
		return apperrors.NewAuthenticationError("sign in required")
	}
	if caller.Role != auth.RoleAdmin {
		return apperrors.NewForbiddenError(messageAdminOnly)
	}
	return nil
}

func firstMessage(fields map[string]string) string {
	for _, name := range signup.Fields {
		if msg, ok := fields[name]; ok {
			return msg
		}
	}
	return "invalid sign-up"
}
