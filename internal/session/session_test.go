package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
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

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	data := &Data{
		UserID:       "user-1",
		Email:        "admin@session.local",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	sessionID, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sessionID == "" {
		t.Error("expected non-empty session ID")
	}

	cookie := sessionCookieFrom(t, w, CookieName)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.Secure {
		t.Error("expected Secure=false for non-secure store")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected session data, got nil")
	}
	if retrieved.Email != "admin@session.local" {
		t.Errorf("email: got %q", retrieved.Email)
	}
	if retrieved.AccessToken != "access-token" {
		t.Errorf("access token: got %q", retrieved.AccessToken)
	}
	if retrieved.Expired() {
		t.Error("session with future expiry should not be Expired")
	}
}

func TestSessionGetNoCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get without cookie: %v", err)
	}
	if data != nil {
		t.Error("expected nil session without cookie")
	}
}

func TestSessionUpdateAfterRefresh(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	data := &Data{Email: "admin@session.local", AccessToken: "old", RefreshToken: "r1"}
	if _, err := store.Create(ctx, w, data); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(sessionCookieFrom(t, w, CookieName))

	data.AccessToken = "rotated"
	data.RefreshToken = "r2"
	if err := store.Update(ctx, req, data); err != nil {
		t.Fatalf("Update: %v", err)
	}

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved.AccessToken != "rotated" || retrieved.RefreshToken != "r2" {
		t.Errorf("tokens not rotated: %+v", retrieved)
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, &Data{Email: "gone@session.local"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := sessionCookieFrom(t, w, CookieName)

	req := httptest.NewRequest("POST", "/admin/logout", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if data != nil {
		t.Error("session should be gone after Destroy")
	}

	cleared := sessionCookieFrom(t, w2, CookieName)
	if cleared == nil || cleared.MaxAge != -1 {
		t.Error("Destroy should expire the cookie")
	}
}

func TestSessionExpired(t *testing.T) {
	past := &Data{ExpiresAt: time.Now().Add(-time.Minute)}
	if !past.Expired() {
		t.Error("past expiry should report Expired")
	}
	zero := &Data{}
	if zero.Expired() {
		t.Error("zero expiry should not report Expired")
	}
}

// --- Visitor like guard ---

func TestVisitorIDMintsAndReuses(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/post/example", nil)

	id := store.VisitorID(w, req)
	if id == "" {
		t.Fatal("expected a minted visitor id")
	}
	cookie := sessionCookieFrom(t, w, VisitorCookieName)
	if cookie == nil || cookie.Value != id {
		t.Fatal("visitor cookie should carry the minted id")
	}

	// A request that already carries the cookie keeps its identity.
	req2 := httptest.NewRequest("GET", "/post/example", nil)
	req2.AddCookie(cookie)
	if got := store.VisitorID(httptest.NewRecorder(), req2); got != id {
		t.Errorf("VisitorID = %q, want reused %q", got, id)
	}
}

func TestMarkLikedIsIdempotentPerVisitor(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	visitor := uuid.NewString()
	article := uuid.New()

	first, err := store.MarkLiked(ctx, visitor, article)
	if err != nil {
		t.Fatalf("MarkLiked: %v", err)
	}
	if !first {
		t.Error("first like should report true")
	}

	second, err := store.MarkLiked(ctx, visitor, article)
	if err != nil {
		t.Fatalf("MarkLiked again: %v", err)
	}
	if second {
		t.Error("second like of the same article should report false")
	}

	liked, err := store.HasLiked(ctx, visitor, article)
	if err != nil {
		t.Fatalf("HasLiked: %v", err)
	}
	if !liked {
		t.Error("HasLiked should be true after MarkLiked")
	}

	// A different visitor is unaffected.
	other, err := store.HasLiked(ctx, uuid.NewString(), article)
	if err != nil {
		t.Fatalf("HasLiked other visitor: %v", err)
	}
	if other {
		t.Error("another visitor should not inherit the like")
	}
}
