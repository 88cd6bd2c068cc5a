// Package main is the entry point for the NewsDesk server. It loads
// configuration, connects to the hosted backend and Valkey, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/backend"
	"newsdesk/internal/config"
	"newsdesk/internal/handlers"
	"newsdesk/internal/render"
	"newsdesk/internal/router"
	"newsdesk/internal/session"
	"newsdesk/internal/storage"
)

func main() {
	// Structured logger — text output, debug level in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.BackendURL,
	)

	// The gateway to the hosted backend: articles, auth, counters.
	gateway := backend.New(cfg.BackendURL, cfg.BackendKey)

	// Connect to Valkey (sessions and the per-visitor like guard).
	valkeyClient, err := session.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize the HTML template renderer. In dev mode, templates load
	// assets from CDN; in production they use embedded compiled files.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Connect to the backend's S3-compatible object storage (optional —
	// the app works without it, with cover uploads disabled).
	var storageClient *storage.Client
	if cfg.StorageConfigured() {
		storageClient, err = storage.New(
			cfg.BackendURL, cfg.StorageRegion,
			cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket,
		)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		slog.Info("object storage connected", "bucket", cfg.StorageBucket)
	} else {
		slog.Warn("object storage not configured — cover uploads disabled")
	}

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(renderer, gateway, storageClient)
	authHandlers := handlers.NewAuth(renderer, gateway, sessionStore)
	publicHandlers := handlers.NewPublic(renderer, gateway, sessionStore)

	// Set up the Chi router with all middleware and routes.
	r, limiters := router.New(router.Deps{
		Sessions: sessionStore,
		Gateway:  gateway,
		Admin:    adminHandlers,
		Auth:     authHandlers,
		Public:   publicHandlers,
		Secure:   secureCookies,
	})
	defer func() {
		for _, l := range limiters {
			l.Stop()
		}
	}()

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// the slowest path: a cover upload proxied through to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
