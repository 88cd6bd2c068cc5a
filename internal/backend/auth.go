// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"
	"time"
)

// AuthClient is the gateway's auth sub-interface. The backend owns
// credentials and token issuance; this client only exchanges and revokes
// tokens on behalf of the admin's browser session.
type AuthClient struct {
	c *Client
}

// User identifies the authenticated admin as the backend reports it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a token pair issued by the backend. ExpiresAt is computed
// locally from expires_in so the session middleware can refresh before
// the access token lapses.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"-"`
	User         User      `json:"user"`
}

// SignIn exchanges email/password credentials for a session. Bad
// credentials come back as an APIError whose message the login form
// shows without clearing the entered email.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var sess Session
	err := a.c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, nil, &sess)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	return &sess, nil
}

// Refresh exchanges a refresh token for a fresh session. A rejected
// refresh means the backend revoked the session (expired, signed out
// elsewhere); the caller drops the local session in response.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var sess Session
	err := a.c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, nil, &sess)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	return &sess, nil
}

// SignOut revokes the access token backend-side. The local session is
// destroyed regardless of the outcome.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	return a.c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil, nil)
}

// UserInfo validates an access token by asking the backend who it
// belongs to. Used to re-derive session presence on initial load.
func (a *AuthClient) UserInfo(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := a.c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
