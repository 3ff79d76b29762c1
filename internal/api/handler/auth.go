// internal/api/handler/auth.go
package handler

import (
	"log"
	"net/http"
	"strings"

	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/web"
	"panthers-signup/pkg/errors"
)

const (
	loginHeading = "ADMIN ACCESS"
	loginIntro   = "This page is restricted to Blue Panthers staff. Sign in to view all player sign-ups."

	messageBadLoginForm = "The sign-in form could not be read. Please try again."
)

type AuthHandler struct {
	sessions Sessions
	listings Listings
	pages    *web.Renderer
	cookies  Cookies
}

func NewAuthHandler(s Sessions, l Listings, pages *web.Renderer, cookies Cookies) *AuthHandler {
	return &AuthHandler{
		sessions: s,
		listings: l,
		pages:    pages,
		cookies:  cookies,
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	WriteHTML(w, r, h.pages.Login(chrome(r), web.LoginView{
		Heading: loginHeading,
		Intro:   loginIntro,
		Next:    safeNext(r.URL.Query().Get("next")),
	}), http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("Error: login form: %v", err)
		WriteHTML(w, r, h.pages.Login(chrome(r), web.LoginView{
			Heading: loginHeading,
			Intro:   loginIntro,
			Next:    safeNext(r.URL.Query().Get("next")),
			Error:   messageBadLoginForm,
		}), http.StatusBadRequest)
		return
	}
	req := auth.LoginRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	next := safeNext(r.PostFormValue("next"))

	sess, err := h.sessions.Login(r.Context(), readCookie(r, sessionCookie), &req)
	if err != nil {
		v := web.LoginView{
			Heading:  loginHeading,
			Intro:    loginIntro,
			Username: req.Username,
			Next:     next,
		}
		var status int
		switch e := err.(type) {
		case *errors.ValidationError:
			status = http.StatusBadRequest
			v.Errors = e.Fields
			v.Error = e.Message
		case *errors.AuthenticationError:
			status = http.StatusUnauthorized
			v.Error = e.Message
		default:
			log.Printf("Error: login: %v", err)
			status = http.StatusBadGateway
			v.Error = err.Error()
		}
		WriteHTML(w, r, h.pages.Login(chrome(r), v), status)
		return
	}

	h.cookies.writeSession(w, sess.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the session and drops the caller's cached listing.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := readCookie(r, sessionCookie)
	if sess, err := h.sessions.Current(r.Context(), sid); err == nil {
		if err := h.listings.Forget(r.Context(), sess.Token); err != nil {
			log.Printf("Error: forget listing cache: %v", err)
		}
	}
	if err := h.sessions.Logout(r.Context(), sid); err != nil {
		log.Printf("Error: logout: %v", err)
	}
	h.cookies.clear(w, sessionCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/signups"
	}
	return next
}
