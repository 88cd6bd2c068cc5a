// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"newsdesk/internal/backend"
	"newsdesk/internal/middleware"
	"newsdesk/internal/render"
	"newsdesk/internal/session"
)

// Auth groups authentication handlers. Credentials are never checked
// locally; the sign-in form is forwarded to the backend's auth service
// and the returned token pair is held in the server-side session.
type Auth struct {
	renderer *render.Renderer
	gateway  *backend.Client
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, gateway *backend.Client, sessions *session.Store) *Auth {
	return &Auth{
		renderer: renderer,
		gateway:  gateway,
		sessions: sessions,
	}
}

// LoginPage renders the sign-in form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign in",
		Data:  map[string]any{"Email": ""},
	})
}

// LoginSubmit forwards the credentials to the backend. Rejected
// credentials re-render the form with the email kept; backend outages
// get a distinct message so the editor knows retrying might help.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		a.loginError(w, r, email, "Email and password are required.")
		return
	}

	backendSess, err := a.gateway.Auth.SignIn(r.Context(), email, password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			a.loginError(w, r, email, "Invalid email or password.")
			return
		}
		slog.Error("sign-in request failed", "error", err)
		a.loginError(w, r, email, "Sign-in is temporarily unavailable. Please try again.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:       backendSess.User.ID,
		Email:        backendSess.User.Email,
		AccessToken:  backendSess.AccessToken,
		RefreshToken: backendSess.RefreshToken,
		ExpiresAt:    backendSess.ExpiresAt,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		a.loginError(w, r, email, "Sign-in is temporarily unavailable. Please try again.")
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout revokes the backend session and destroys the local one. The
// local session is dropped even when the backend call fails, so signing
// out always works from the editor's point of view.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		if err := a.gateway.Auth.SignOut(r.Context(), sess.AccessToken); err != nil {
			slog.Warn("backend sign-out failed", "error", err)
		}
	}

	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, email, msg string) {
	a.renderer.PageStatus(w, r, "login", http.StatusUnprocessableEntity, &render.PageData{
		Title: "Sign in",
		Error: msg,
		Data:  map[string]any{"Email": email},
	})
}
