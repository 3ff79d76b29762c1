// internal/domain/auth/model.go
package auth

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Caller is the identity behind a signed-in session, as reported by the backend.
type Caller struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// Session is a signed-in browser session. Token is the backend bearer token.
type Session struct {
	ID       string `json:"-"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
