// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend is the single configured handle to the hosted backend
// service. Every read and write in the app goes through it: row queries
// and mutations on the "articles" collection, counter increment
// procedures, and the credentials-based auth endpoints. The backend owns
// all persistence; this package only speaks its REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when a query matches no row. Handlers render it
// as a distinct not-found view, never as an error banner.
var ErrNotFound = errors.New("backend: not found")

// APIError is a rejection from the backend. Its message is surfaced to
// the user verbatim so a failed save can be retried with context.
type APIError struct {
	Status  int    // HTTP status code
	Message string // backend-provided message
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

// Client is the backend gateway. Configured once at startup with the
// backend's base URL and public API key; shared by all handlers.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	Articles *ArticlesClient
	Auth     *AuthClient
}

// New creates a gateway for the backend at baseURL using the public API
// key. baseURL must not have a trailing slash (config trims it).
func New(baseURL, apiKey string) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	c.Articles = &ArticlesClient{c: c}
	c.Auth = &AuthClient{c: c}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs a JSON request against the backend. token is the bearer
// credential: an admin session's access token for gated writes, or empty
// to fall back to the public API key. When out is non-nil the response
// body is decoded into it.
func (c *Client) do(ctx context.Context, method, path, token string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("backend unmarshal: %w", err)
		}
	}
	return nil
}

// errorMessage extracts a human-readable message from a backend error
// body. The row API and the auth API use different field names, so each
// known one is tried before falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message          string `json:"message"`           // row API
		Msg              string `json:"msg"`               // auth API
		ErrorDescription string `json:"error_description"` // auth API (token grant)
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		case payload.Msg != "":
			return payload.Msg
		}
	}
	if len(body) == 0 {
		return "request failed"
	}
	return string(body)
}
