package auth

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transport"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgDatabaseError      = "Database connection error"
)

type SessionManager interface {
	SessionResolver
	Create(ctx context.Context, w http.ResponseWriter, id identity.Identity) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionManager
	Pages    *template.Template
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, sessions SessionManager, pages *template.Template) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Sessions:    sessions,
		Pages:       pages,
	}
}

type loginPage struct {
	Error    string
	Username string
}

// Home renders the login page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", loginPage{})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusOK, "index.html", loginPage{Error: msgInvalidCredentials})
		return
	}

	dto := LoginDTO{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	id, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		msg := msgInvalidCredentials
		if _, ok := internal.IsAppError(err); ok && !errors.Is(err, ErrInvalidCredentials) {
			msg = msgDatabaseError
		}
		h.render(w, http.StatusOK, "index.html", loginPage{Error: msg, Username: dto.Username})
		return
	}

	if err := h.Sessions.Create(r.Context(), w, id); err != nil {
		h.Logger.Error("failed to create session", "username", id.Username, "error", err)
		h.render(w, http.StatusOK, "index.html", loginPage{Error: msgDatabaseError, Username: dto.Username})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard renders the dashboard page, or sends anonymous visitors back to login.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, err := h.Sessions.Resolve(r.Context(), r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "dashboard.html", id)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(r.Context(), w, r); err != nil {
		h.Logger.Warn("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CurrentUser returns the session snapshot.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrNotAuthenticated)
		return
	}
	h.WriteJSON(w, http.StatusOK, id)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Pages.ExecuteTemplate(w, name, data); err != nil {
		h.Logger.Error("failed to render page", "template", name, "error", err)
	}
}
