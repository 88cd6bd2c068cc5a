// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Hosted backend (row storage, auth, storage API)
	BackendURL string // base URL of the hosted backend
	BackendKey string // public (anon) API key

	// Valkey (Redis-compatible session + like-guard store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Object storage — the backend's S3-compatible endpoint.
	// Optional: uploads are disabled when the keys are absent.
	StorageBucket    string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. The backend URL and API key have no
// defaults: without them every request would fail in confusing ways, so
// their absence is a startup error.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		BackendURL: strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendKey: os.Getenv("BACKEND_ANON_KEY"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		StorageBucket:    envOrDefault("STORAGE_BUCKET", "images"),
		StorageRegion:    envOrDefault("STORAGE_REGION", "local"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL must be set")
	}
	if cfg.BackendKey == "" {
		return nil, fmt.Errorf("BACKEND_ANON_KEY must be set")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageConfigured reports whether S3 upload credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.StorageAccessKey != "" && c.StorageSecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
