// Package web renders the sign-up site's HTML pages.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

const (
	pageSignUp  = "signup"
	pageConfirm = "confirm"
	pageListing = "listing"
	pageDetail  = "detail"
	pageLogin   = "login"
	pageDenied  = "denied"
	pageError   = "error"
)

var pageNames = []string{pageSignUp, pageConfirm, pageListing, pageDetail, pageLogin, pageDenied, pageError}

// Chrome is the per-request state shared by every full page.
type Chrome struct {
	SignedIn bool
	// Username is shown in the header when the backend has confirmed it.
	Username string
}

type page struct {
	Title    string
	SignedIn bool
	Username string
	Live     bool
	Data     interface{}
}

// Renderer turns view models into templ components.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

var funcs = template.FuncMap{
	"fieldError": func(errs map[string]string, field string) FieldErrorView {
		return FieldErrorView{Field: field, Message: errs[field]}
	},
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/fragments.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames)), fragments: base}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Static serves the stylesheet and other assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (r *Renderer) SignUp(c Chrome, v SignUpView) templ.Component {
	return r.page(pageSignUp, "Join the Team", c, false, v)
}

func (r *Renderer) Confirm(c Chrome, v ConfirmView) templ.Component {
	return r.page(pageConfirm, "You're In", c, false, v)
}

func (r *Renderer) Listing(c Chrome, v ListingView) templ.Component {
	return r.page(pageListing, "Sign-Ups", c, true, v)
}

func (r *Renderer) Detail(c Chrome, v DetailView) templ.Component {
	return r.page(pageDetail, v.Row.Name, c, false, v)
}

func (r *Renderer) Login(c Chrome, v LoginView) templ.Component {
	return r.page(pageLogin, "Sign In", c, false, v)
}

func (r *Renderer) Denied(c Chrome, v DeniedView) templ.Component {
	return r.page(pageDenied, "Access Denied", c, false, v)
}

func (r *Renderer) Error(c Chrome, v ErrorView) templ.Component {
	return r.page(pageError, "Error", c, false, v)
}

// FieldError renders the inline message slot for one form field.
func (r *Renderer) FieldError(v FieldErrorView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.fragments.ExecuteTemplate(w, "field-error", v)
	})
}

func (r *Renderer) page(name, title string, c Chrome, live bool, data interface{}) templ.Component {
	t := r.pages[name]
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", page{
			Title:    title,
			SignedIn: c.SignedIn,
			Username: c.Username,
			Live:     live,
			Data:     data,
		})
	})
}
