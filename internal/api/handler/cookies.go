// internal/api/handler/cookies.go
package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	formCookie    = "panthers_form"
	sessionCookie = "panthers_session"
)

// Cookies writes the site's cookies with shared attributes.
type Cookies struct {
	Secure     bool
	FormTTL    time.Duration
	SessionTTL time.Duration
}

// formSession returns the caller's form session id, starting a new one when
// the cookie is missing.
func (c Cookies) formSession(w http.ResponseWriter, r *http.Request) string {
	id := readCookie(r, formCookie)
	if id == "" {
		id = uuid.NewString()
	}
	c.write(w, formCookie, id, c.FormTTL)
	return id
}

func (c Cookies) writeSession(w http.ResponseWriter, id string) {
	c.write(w, sessionCookie, id, c.SessionTTL)
}

func (c Cookies) write(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func readCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func signedIn(r *http.Request) bool {
	return readCookie(r, sessionCookie) != ""
}
