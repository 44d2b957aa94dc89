package handler

import (
	"net/http"
	"path/filepath"

	"github.com/spendwise/spendwise/internal/middleware"
)

// PageHandler serves the static HTML pages.
type PageHandler struct {
	publicDir  string
	cookieName string
	sessions   middleware.SessionResolver
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(publicDir, cookieName string, sessions middleware.SessionResolver) *PageHandler {
	return &PageHandler{
		publicDir:  publicDir,
		cookieName: cookieName,
		sessions:   sessions,
	}
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "index.html")
}

// Login handles GET /login.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "login.html")
}

// Register handles GET /register.
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "register.html")
}

// Dashboard handles GET /dashboard. Anonymous visitors are sent to the login
// page instead of getting a bare 401, since this is a browser route.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	subject, err := h.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil || subject == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.serve(w, r, "dashboard.html")
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	http.ServeFile(w, r, filepath.Join(h.publicDir, name))
}
