// internal/api/handler/dashboard.go
package handler

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/web"
	apperrors "panthers-signup/pkg/errors"
)

const (
	messageNoPermission = "You do not have permission to view sign-ups. Only the app owner (admin) can access this page."
	messageNotAdmin     = "Your account does not have admin privileges. Contact the team owner to request access."
)

type Listings interface {
	List(ctx context.Context, token string) ([]signup.Record, error)
	Get(ctx context.Context, token string, id signup.RecordID) (*signup.Record, error)
	Forget(ctx context.Context, token string) error
}

type Sessions interface {
	Login(ctx context.Context, currentSessionID string, req *auth.LoginRequest) (*auth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*auth.Session, error)
	Whoami(ctx context.Context, sess *auth.Session) (*auth.Caller, error)
	IsCallerAdmin(ctx context.Context, sess *auth.Session) (bool, error)
}

type DashboardHandler struct {
	listings Listings
	sessions Sessions
	pages    *web.Renderer
	cookies  Cookies
}

func NewDashboardHandler(l Listings, s Sessions, pages *web.Renderer, cookies Cookies) *DashboardHandler {
	return &DashboardHandler{
		listings: l,
		sessions: s,
		pages:    pages,
		cookies:  cookies,
	}
}

func (h *DashboardHandler) SignUps(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "/signups", "PLAYER")
}

func (h *DashboardHandler) Owner(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, "/owner", "OWNER")
}

func (h *DashboardHandler) listing(w http.ResponseWriter, r *http.Request, path, heading string) {
	sess, c, ok := h.session(w, r, path)
	if !ok {
		return
	}
	records, err := h.listings.List(r.Context(), sess.Token)
	if err != nil {
		h.fail(w, r, path, messageNoPermission, err)
		return
	}
	WriteHTML(w, r, h.pages.Listing(c, web.ListingView{
		Heading: heading,
		Path:    path,
		Count:   len(records),
		Rows:    web.Rows(records),
	}), http.StatusOK)
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := h.admin(w, r, "/admin")
	if !ok {
		return
	}
	records, err := h.listings.List(r.Context(), sess.Token)
	if err != nil {
		h.fail(w, r, "/admin", messageNotAdmin, err)
		return
	}
	WriteHTML(w, r, h.pages.Listing(c, web.ListingView{
		Heading:     "PLAYER",
		Path:        "/admin",
		Count:       len(records),
		Rows:        web.Rows(records),
		Counts:      web.CountByPosition(records),
		DetailLinks: true,
	}), http.StatusOK)
}

func (h *DashboardHandler) Detail(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.fail(w, r, path, messageNotAdmin, apperrors.NewNotFoundError("Sign-up not found"))
		return
	}
	sess, c, ok := h.admin(w, r, path)
	if !ok {
		return
	}
	rec, err := h.listings.Get(r.Context(), sess.Token, signup.RecordID(id))
	if err != nil {
		h.fail(w, r, path, messageNotAdmin, err)
		return
	}
	WriteHTML(w, r, h.pages.Detail(c, web.NewDetailView(*rec)), http.StatusOK)
}

// session returns the signed-in session and the page chrome naming the
// caller, or redirects to the login page. The backend is asked who the caller
// is on every request, so a revoked token signs the visitor out.
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request, next string) (*auth.Session, web.Chrome, bool) {
	sess, err := h.sessions.Current(r.Context(), readCookie(r, sessionCookie))
	if err == nil {
		var caller *auth.Caller
		if caller, err = h.sessions.Whoami(r.Context(), sess); err == nil {
			return sess, web.Chrome{SignedIn: true, Username: caller.Username}, true
		}
	}
	if _, ok := err.(*apperrors.AuthenticationError); ok {
		h.cookies.clear(w, sessionCookie)
		redirectToLogin(w, r, next)
		return nil, web.Chrome{}, false
	}
	h.fail(w, r, next, "", err)
	return nil, web.Chrome{}, false
}

func (h *DashboardHandler) admin(w http.ResponseWriter, r *http.Request, next string) (*auth.Session, web.Chrome, bool) {
	sess, c, ok := h.session(w, r, next)
	if !ok {
		return nil, c, false
	}
	isAdmin, err := h.sessions.IsCallerAdmin(r.Context(), sess)
	if err != nil {
		h.fail(w, r, next, messageNotAdmin, err)
		return nil, c, false
	}
	if !isAdmin {
		h.deny(w, r, next, messageNotAdmin)
		return nil, c, false
	}
	return sess, c, true
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, next, denied string, err error) {
	switch e := err.(type) {
	case *apperrors.AuthenticationError:
		h.cookies.clear(w, sessionCookie)
		redirectToLogin(w, r, next)
	case *apperrors.ForbiddenError:
		h.deny(w, r, next, denied)
	case *apperrors.NotFoundError:
		WriteHTML(w, r, h.pages.Error(chrome(r), web.ErrorView{Message: e.Message, Retry: "/admin"}), http.StatusNotFound)
	default:
		log.Printf("Error: %s: %v", next, err)
		WriteHTML(w, r, h.pages.Error(chrome(r), web.ErrorView{Message: err.Error(), Retry: next}), http.StatusBadGateway)
	}
}

func (h *DashboardHandler) deny(w http.ResponseWriter, r *http.Request, next, message string) {
	WriteHTML(w, r, h.pages.Denied(chrome(r), web.DeniedView{
		Heading: "ACCESS DENIED",
		Message: message,
		Next:    next,
	}), http.StatusForbidden)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, next string) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusSeeOther)
}
