// Package router sets up all HTTP routes and middleware chains: the
// public site, the like and preference endpoints, and the admin area
// with its auth and CSRF stack.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/backend"
	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
	"newsdesk/web"
)

// Rate limit budgets. Likes get a generous per-IP budget; sign-in
// attempts a tight one.
const (
	likeLimit   = 30
	likeWindow  = time.Minute
	loginLimit  = 5
	loginWindow = time.Minute
)

// maxRequestBody caps request bodies at the largest accepted cover
// upload plus slack for the remaining multipart fields. Enforced before
// CSRF validation so oversized uploads are never form-parsed.
const maxRequestBody = handlers.MaxUploadSize + 64<<10

// Deps carries everything the router wires together.
type Deps struct {
	Sessions *session.Store
	Gateway  *backend.Client
	Admin    *handlers.Admin
	Auth     *handlers.Auth
	Public   *handlers.Public
	Secure   bool // mark CSRF cookies HTTPS-only
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned limiters keep background
// goroutines; Stop them on shutdown.
func New(d Deps) (chi.Router, []*middleware.RateLimiter) {
	r := chi.NewRouter()

	likeLimiter := middleware.NewRateLimiter(likeLimit, likeWindow)
	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.MaxBytes(maxRequestBody))
	r.Use(middleware.LoadSession(d.Sessions, d.Gateway))
	r.Use(middleware.NewCSRF(d.Secure))

	// Health check.
	r.Get("/health", healthHandler)

	// Static assets.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	// Public site.
	r.Get("/", d.Public.Home)
	r.Get("/post/{slug}", d.Public.Article)
	r.With(likeLimiter.Middleware).Post("/post/{slug}/like", d.Public.Like)

	// Display preferences.
	r.Post("/prefs/theme", d.Public.ToggleTheme)
	r.Post("/prefs/text-size", d.Public.ToggleTextSize)

	// Admin area.
	r.Route("/admin", func(r chi.Router) {
		// Auth pages — accessible without a session.
		r.Get("/login", d.Auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", d.Auth.LoginSubmit)
		r.Post("/logout", d.Auth.Logout)

		// Authenticated editor area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", d.Admin.Dashboard)

			r.Route("/articles", func(r chi.Router) {
				r.Get("/new", d.Admin.NewForm)
				r.Post("/new", d.Admin.Create)
				r.Get("/{id}/edit", d.Admin.EditForm)
				r.Post("/{id}/edit", d.Admin.Update)
				r.Get("/{id}/delete", d.Admin.DeleteConfirm)
				r.Post("/{id}/delete", d.Admin.Delete)
			})
		})
	})

	return r, []*middleware.RateLimiter{likeLimiter, loginLimiter}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
