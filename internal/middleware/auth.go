// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"newsdesk/internal/backend"
	"newsdesk/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession retrieves the admin session from Valkey and stores it in
// the request context. When the backend access token has expired, it is
// refreshed against the backend first; a rejected refresh means the
// backend revoked the session (expired or signed out elsewhere), so the
// local session is dropped and the request proceeds unauthenticated.
// This middleware does NOT enforce authentication — it just keeps the
// local session in sync with the backend's view of it.
func LoadSession(store *session.Store, gateway *backend.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil || data == nil {
				// Log but don't block — treat as unauthenticated.
				if err != nil {
					slog.Warn("session load failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if data.Expired() {
				refreshed, err := gateway.Auth.Refresh(r.Context(), data.RefreshToken)
				if err != nil {
					slog.Info("session no longer honoured by backend, dropping",
						"email", data.Email, "error", err)
					store.Destroy(r.Context(), w, r)
					next.ServeHTTP(w, r)
					return
				}

				data.AccessToken = refreshed.AccessToken
				data.RefreshToken = refreshed.RefreshToken
				data.ExpiresAt = refreshed.ExpiresAt
				if err := store.Update(r.Context(), r, data); err != nil {
					slog.Warn("session update after refresh failed", "error", err)
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects unauthenticated users to the login page.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
