/*
Package web renders the server-side pages and carries toasts across redirects.
*/
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"rubiechat/internal/app/authform"
	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/session"
	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/logx"
)

const (
	PageAuth  = "auth.html"
	PageUsers = "users.html"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// AuthPage is the data of the sign-in/registration page.
type AuthPage struct {
	Form      *authform.Form
	Providers []string
	Toasts    []authform.Toast
}

// UserCard is one entry of the people list.
type UserCard struct {
	User    user.User
	Avatars chat.AvatarGroup
}

// UsersPage is the data of the signed-in landing page.
type UsersPage struct {
	Viewer        session.User
	Users         []UserCard
	Conversations []chat.ConversationSummary
	Toasts        []authform.Toast
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages  map[string]*template.Template
	logger zerolog.Logger
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages:  make(map[string]*template.Template),
		logger: logx.Component("Renderer"),
	}

	for _, page := range []string{PageAuth, PageUsers} {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	r.logger.Debug().Int("pages", len(r.pages)).Msg("Page templates parsed.")
	return r, nil
}

// Render writes page with status. The page is executed into a buffer first so a
// template error never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		logx.FromContext(req.Context()).Error().Str("page", page).Msg("Unknown page requested.")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logx.FromContext(req.Context()).Error().Err(err).Str("page", page).Msg("Failed to render page.")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticHandler serves the embedded images.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
