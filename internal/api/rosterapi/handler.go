// Package rosterapi serves the roster backend's JSON API.
package rosterapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/roster"
	"panthers-signup/internal/domain/signup"
	apperrors "panthers-signup/pkg/errors"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeCapacityExceeded     = signup.CodeCapacityExceeded
	CodeClosed               = signup.CodeClosed
	CodeValidation           = signup.CodeValidation
	CodeAlreadyAuthenticated = "already_authenticated"
)

type ErrorResponse struct {
	Status  int               `json:"status"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Service interface {
	Submit(ctx context.Context, req signup.Request) (signup.RecordID, error)
	List(ctx context.Context, caller *auth.Caller) ([]signup.Record, error)
	Get(ctx context.Context, caller *auth.Caller, id signup.RecordID) (*signup.Record, error)
	Capacity(ctx context.Context) ([]signup.PositionCapacity, error)
	Login(ctx context.Context, currentToken string, req *auth.LoginRequest) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*auth.Caller, error)
	AssignRole(ctx context.Context, caller *auth.Caller, username string, req *roster.RoleRequest) error
	Register(ctx context.Context, caller *auth.Caller, req *auth.LoginRequest) (*roster.User, error)
}

type Handler struct {
	roster Service
}

func NewHandler(s Service) *Handler {
	return &Handler{roster: s}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(h.authenticate)

	r.Post("/signups", h.Submit)
	r.Get("/signups", h.List)
	r.Get("/signups/{id}", h.Get)
	r.Get("/capacity", h.Capacity)

	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
	r.Get("/auth/admin", h.IsAdmin)

	r.Post("/users", h.Register)
	r.Put("/users/{username}/role", h.AssignRole)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req signup.Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, apperrors.NewBadRequestError("invalid request payload"))
		return
	}
	id, err := h.roster.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]signup.RecordID{"id": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.roster.List(r.Context(), callerFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, apperrors.NewNotFoundError("sign-up not found"))
		return
	}
	rec, err := h.roster.Get(r.Context(), callerFrom(r.Context()), signup.RecordID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

func (h *Handler) Capacity(w http.ResponseWriter, r *http.Request) {
	caps, err := h.roster.Capacity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, caps)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, apperrors.NewBadRequestError("invalid request payload"))
		return
	}
	token, err := h.roster.Login(r.Context(), bearer(r), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"token": token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Logout(r.Context(), bearer(r)); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller == nil {
		writeError(w, r, apperrors.NewAuthenticationError("sign in required"))
		return
	}
	render.JSON(w, r, caller)
}

func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller == nil {
		writeError(w, r, apperrors.NewAuthenticationError("sign in required"))
		return
	}
	render.JSON(w, r, map[string]bool{"admin": caller.Role == auth.RoleAdmin})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, apperrors.NewBadRequestError("invalid request payload"))
		return
	}
	user, err := h.roster.Register(r.Context(), callerFrom(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, auth.Caller{Username: user.Username, Role: user.Role})
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req roster.RoleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, apperrors.NewBadRequestError("invalid request payload"))
		return
	}
	if err := h.roster.AssignRole(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "username"), &req); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Message: err.Error()}
	var capErr *roster.CapacityError
	switch e := err.(type) {
	case *apperrors.ValidationError:
		resp.Status, resp.Code, resp.Fields = http.StatusBadRequest, CodeValidation, e.Fields
	case *apperrors.BadRequestError:
		resp.Status = http.StatusBadRequest
	case *apperrors.AuthenticationError:
		resp.Status = http.StatusUnauthorized
	case *apperrors.ForbiddenError:
		resp.Status = http.StatusForbidden
	case *apperrors.NotFoundError:
		resp.Status = http.StatusNotFound
	default:
		switch {
		case errors.As(err, &capErr) && errors.Is(err, roster.ErrPositionClosed):
			resp.Status, resp.Code = http.StatusConflict, CodeClosed
		case errors.As(err, &capErr):
			resp.Status, resp.Code = http.StatusConflict, CodeCapacityExceeded
		case errors.Is(err, auth.ErrAlreadyAuthenticated):
			resp.Status, resp.Code = http.StatusConflict, CodeAlreadyAuthenticated
		case errors.Is(err, roster.ErrUserExists):
			resp.Status = http.StatusConflict
		case errors.Is(err, roster.ErrSignUpNotFound), errors.Is(err, roster.ErrUserNotFound):
			resp.Status = http.StatusNotFound
		default:
			log.Printf("Error: %v", err)
			resp.Status = http.StatusInternalServerError
			resp.Message = apperrors.NewInternalError().Error()
		}
	}
	render.Status(r, resp.Status)
	render.JSON(w, r, resp)
}

type callerKey struct{}

// authenticate resolves an optional bearer token. Requests with a bad token
// are rejected; requests without one continue anonymously.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" || r.URL.Path == "/auth/login" {
			next.ServeHTTP(w, r)
			return
		}
		caller, err := h.roster.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	})
}

func callerFrom(ctx context.Context) *auth.Caller {
	caller, _ := ctx.Value(callerKey{}).(*auth.Caller)
	return caller
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
