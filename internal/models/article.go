// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the typed records exchanged with the hosted
// backend. Rows arrive as loosely-shaped JSON, so the types here validate
// and coerce at the boundary before the rest of the app touches them.
package models

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCategory is assigned when an article has no category.
	DefaultCategory = "Technology"

	// DefaultAuthor is assigned when an article has no author.
	DefaultAuthor = "Admin"

	// CategoryAll is the filter sentinel meaning "no category filter".
	CategoryAll = "All"
)

// Categories is the fixed set offered by the editor and the homepage
// filter. Free-text categories from older rows still render; they just
// don't appear in the filter bar.
var Categories = []string{
	"Technology",
	"Business",
	"Science",
	"Sports",
	"Entertainment",
	"Health",
}

// Count is a non-negative counter column. The backend normally returns a
// JSON number, but older rows and admin-edited values can arrive as
// strings or null; anything unparseable coerces to zero instead of
// failing the decode.
type Count int

// UnmarshalJSON coerces numbers, numeric strings, and null into a
// non-negative int. Invalid input becomes 0.
func (c *Count) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" || s == "" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		*c = 0
		return nil
	}
	*c = Count(n)
	return nil
}

// ParseCount coerces a free-form admin form value into a Count.
// Non-numeric or negative input yields 0 rather than an error.
func ParseCount(s string) Count {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return Count(n)
}

// Article is the sole persisted entity: one publishable content item in
// the backend's "articles" collection. The backend assigns ID and
// CreatedAt on insert; everything else is written by this app.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	ImageURL    string    `json:"image_url"`
	IsPublished bool      `json:"is_published"`
	ViewsCount  Count     `json:"views_count"`
	LikesCount  Count     `json:"likes_count"`
	AdImage     string    `json:"ad_image"`
	AdLink      string    `json:"ad_link"`
	CreatedAt   time.Time `json:"created_at"`
}

// Normalize applies the client-side defaults for rows whose optional
// fields came back empty. Called on every article decoded from the
// backend and on every new draft.
func (a *Article) Normalize() {
	if strings.TrimSpace(a.Category) == "" {
		a.Category = DefaultCategory
	}
	if strings.TrimSpace(a.Author) == "" {
		a.Author = DefaultAuthor
	}
}

// HasAd reports whether the sponsored unit should render. The ad image
// URL must be non-empty after trimming; the link alone is not enough.
func (a *Article) HasAd() bool {
	return strings.TrimSpace(a.AdImage) != ""
}

// StatusLabel returns the dashboard badge text for the article.
func (a *Article) StatusLabel() string {
	if a.IsPublished {
		return "LIVE"
	}
	return "DRAFT"
}

// FilterByCategory returns the articles whose category exactly matches
// the selected one (case-sensitive). An empty selection or CategoryAll
// means no filter.
func FilterByCategory(articles []Article, category string) []Article {
	if category == "" || category == CategoryAll {
		return articles
	}
	var out []Article
	for _, a := range articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Trending returns the first n articles of an already newest-first list,
// used for the homepage trending rail.
func Trending(articles []Article, n int) []Article {
	if n >= len(articles) {
		return articles
	}
	return articles[:n]
}
