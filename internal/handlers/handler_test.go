// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// The remote backend is faked with httptest servers; tests that need the
// session store are skipped when Valkey is unavailable.
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"newsdesk/internal/backend"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/render"
	"newsdesk/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "likes:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// recordedRequest captures one request the fake backend received.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// backendRecorder accumulates requests across goroutines; the view
// counter goroutine reports through it too.
type backendRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (br *backendRecorder) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	br.mu.Lock()
	defer br.mu.Unlock()
	br.requests = append(br.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
}

func (br *backendRecorder) count() int {
	br.mu.Lock()
	defer br.mu.Unlock()
	return len(br.requests)
}

func (br *backendRecorder) all() []recordedRequest {
	br.mu.Lock()
	defer br.mu.Unlock()
	out := make([]recordedRequest, len(br.requests))
	copy(out, br.requests)
	return out
}

// find returns the first recorded request whose path matches.
func (br *backendRecorder) find(path string) (recordedRequest, bool) {
	for _, req := range br.all() {
		if req.Path == path {
			return req, true
		}
	}
	return recordedRequest{}, false
}

// waitFor polls until a request with the given path arrives or the
// timeout passes. Needed for the background view counter.
func (br *backendRecorder) waitFor(t *testing.T, path string) recordedRequest {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if req, ok := br.find(path); ok {
			return req
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("backend never received a request for %s", path)
	return recordedRequest{}
}

// newFakeBackend starts an httptest server that records every request
// and delegates the response to respond. Returns a gateway client
// pointed at it.
func newFakeBackend(t *testing.T, respond http.HandlerFunc) (*backend.Client, *backendRecorder) {
	t.Helper()

	rec := &backendRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	return backend.New(srv.URL, "test-anon-key"), rec
}

// jsonList responds with a fixed JSON array body on every request.
func jsonList(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return rn
}

// testSession creates session data as LoadSession would carry it.
func testSession() *session.Data {
	return &session.Data{
		UserID:       uuid.NewString(),
		Email:        "editor@newsdesk.local",
		AccessToken:  "editor-access-token",
		RefreshToken: "editor-refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and a session.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// articleJSON renders one article as the backend would return it.
func articleJSON(a models.Article) string {
	return `{"id":"` + a.ID.String() + `","slug":"` + a.Slug + `","title":"` + a.Title +
		`","content":"` + a.Content + `","category":"` + a.Category + `","author":"` + a.Author +
		`","image_url":"` + a.ImageURL + `","is_published":` + boolJSON(a.IsPublished) +
		`,"views_count":` + strconv.Itoa(int(a.ViewsCount)) + `,"likes_count":` + strconv.Itoa(int(a.LikesCount)) +
		`,"ad_image":"` + a.AdImage + `","ad_link":"` + a.AdLink +
		`","created_at":"` + a.CreatedAt.Format(time.RFC3339) + `"}`
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
