// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// visitor.go implements the durable like guard: an anonymous visitor
// identity cookie keying a Valkey set of liked article ids. The guard
// makes the like action idempotent per visitor and survives page
// reloads, unlike an in-memory flag.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// VisitorCookieName identifies an anonymous reader across visits.
	VisitorCookieName = "nd_visitor"

	// visitorTTL is how long a visitor's liked set is retained. The
	// cookie and the set expire together; after that the reader may
	// like an article again, which the backend tolerates.
	visitorTTL = 365 * 24 * time.Hour

	// likesPrefix namespaces liked-set keys in Valkey.
	likesPrefix = "likes:"
)

// VisitorID returns the caller's visitor identity, minting and setting
// a new cookie when none exists yet.
func (s *Store) VisitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(VisitorCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(visitorTTL.Seconds()),
	})
	return id
}

// MarkLiked records that the visitor liked the article. Returns true
// when this is the first like (the caller then forwards the increment
// to the backend) and false when the article was already in the set.
func (s *Store) MarkLiked(ctx context.Context, visitorID string, articleID uuid.UUID) (bool, error) {
	key := likesPrefix + visitorID
	added, err := s.client.SAdd(ctx, key, articleID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("like guard add: %w", err)
	}
	// Refresh retention on every interaction.
	s.client.Expire(ctx, key, visitorTTL)
	return added == 1, nil
}

// HasLiked reports whether the visitor already liked the article. Used
// to render the like button in its disabled state.
func (s *Store) HasLiked(ctx context.Context, visitorID string, articleID uuid.UUID) (bool, error) {
	liked, err := s.client.SIsMember(ctx, likesPrefix+visitorID, articleID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("like guard check: %w", err)
	}
	return liked, nil
}
