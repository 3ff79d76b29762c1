// internal/api/handler/signup.go
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/web"
	apperrors "panthers-signup/pkg/errors"
)

type SignUpService interface {
	Open(ctx context.Context, sessionID string) (*signup.Presenter, error)
	ValidateField(ctx context.Context, sessionID, field, value string) error
	Submit(ctx context.Context, sessionID string, f signup.Form) (*signup.Presenter, signup.Outcome, error)
	Reset(ctx context.Context, sessionID string) error
	AgeBounds() signup.AgeBounds
}

type SignUpHandler struct {
	signups SignUpService
	pages   *web.Renderer
	cookies Cookies
	timeout time.Duration
}

func NewSignUpHandler(s SignUpService, pages *web.Renderer, cookies Cookies, timeout time.Duration) *SignUpHandler {
	return &SignUpHandler{
		signups: s,
		pages:   pages,
		cookies: cookies,
		timeout: timeout,
	}
}

func (h *SignUpHandler) Form(w http.ResponseWriter, r *http.Request) {
	sid := h.cookies.formSession(w, r)
	p, err := h.signups.Open(r.Context(), sid)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	WriteHTML(w, r, h.pages.SignUp(chrome(r), h.view(p, signup.Form{}, nil)), http.StatusOK)
}

// Submit sends the form. The backend call runs detached from the client
// connection so a navigation away never abandons it half way.
func (h *SignUpHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.NewBadRequestError("invalid form payload"))
		return
	}
	f := signup.Form{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Age:             r.PostFormValue("age"),
		Position:        r.PostFormValue("position"),
		ExperienceLevel: r.PostFormValue("experienceLevel"),
	}
	sid := h.cookies.formSession(w, r)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()
	p, out, err := h.signups.Submit(ctx, sid, f)
	if err == nil {
		WriteHTML(w, r, h.pages.Confirm(chrome(r), web.ConfirmView{Name: out.Name}), http.StatusOK)
		return
	}
	if p == nil {
		h.renderError(w, r, err)
		return
	}

	f.Normalize()
	v := h.view(p, f, nil)
	status := http.StatusInternalServerError
	switch e := err.(type) {
	case *apperrors.ValidationError:
		status = http.StatusBadRequest
		v.Errors = e.Fields
		v.Message = e.Message
	case *apperrors.CapacityExceededError, *apperrors.ClosedError:
		status = http.StatusConflict
		v.Message = p.Message(e)
		v.MessageKind = web.MessageCapacity
		v.Form.Position = ""
		v.Options = p.Options("")
	case *apperrors.ConflictError:
		status = http.StatusConflict
		v.Message = e.Message
	case *apperrors.UnknownError:
		status = http.StatusBadGateway
		v.Message = e.Message
	default:
		v.Message = apperrors.NewInternalError().Error()
	}
	log.Printf("Error: submit sign-up: %v", err)
	WriteHTML(w, r, h.pages.SignUp(chrome(r), v), status)
}

// ValidateField answers the form's change listener with the inline message
// slot for one field.
func (h *SignUpHandler) ValidateField(w http.ResponseWriter, r *http.Request) {
	field := r.PostFormValue("field")
	value := r.PostFormValue("value")
	sid := h.cookies.formSession(w, r)

	v := web.FieldErrorView{Field: field}
	err := h.signups.ValidateField(r.Context(), sid, field, value)
	var fe *signup.FieldError
	switch {
	case errors.As(err, &fe):
		v.Message = fe.Message
	case err != nil:
		log.Printf("Error: validate %s: %v", field, err)
	}
	WriteHTML(w, r, h.pages.FieldError(v), http.StatusOK)
}

// Reset starts another sign-up. Capacity learned so far is kept unless hard=1,
// which behaves like a fresh page load.
func (h *SignUpHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("hard") == "1" {
		if sid := readCookie(r, formCookie); sid != "" {
			if err := h.signups.Reset(r.Context(), sid); err != nil {
				log.Printf("Error: reset form session: %v", err)
			}
		}
		h.cookies.clear(w, formCookie)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type capacityResponse struct {
	Full      []signup.Position       `json:"full"`
	Positions []signup.PositionOption `json:"positions"`
}

// Capacity reports the caller's form session capacity state.
func (h *SignUpHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	sid := h.cookies.formSession(w, r)
	p, err := h.signups.Open(r.Context(), sid)
	if err != nil {
		WriteError(w, err, http.StatusServiceUnavailable)
		return
	}
	full := p.State().Full()
	if full == nil {
		full = []signup.Position{}
	}
	WriteJSON(w, capacityResponse{Full: full, Positions: p.Options("")}, http.StatusOK)
}

func (h *SignUpHandler) view(p *signup.Presenter, f signup.Form, errs map[string]string) web.SignUpView {
	ages := h.signups.AgeBounds()
	pos, _ := signup.ParsePosition(f.Position)
	return web.SignUpView{
		Form:        f,
		Options:     p.Options(pos),
		Experience:  web.ExperienceOptions(f.ExperienceLevel),
		Errors:      errs,
		MessageKind: web.MessageError,
		AgeMin:      ages.Min,
		AgeMax:      ages.Max,
	}
}

func (h *SignUpHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Error: %v", err)
	status := http.StatusServiceUnavailable
	if _, ok := err.(*apperrors.BadRequestError); ok {
		status = http.StatusBadRequest
	}
	WriteHTML(w, r, h.pages.Error(chrome(r), web.ErrorView{Message: err.Error(), Retry: "/"}), status)
}

func chrome(r *http.Request) web.Chrome {
	return web.Chrome{SignedIn: signedIn(r)}
}
