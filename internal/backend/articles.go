// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// articlesPath is the row endpoint for the articles collection.
const articlesPath = "/rest/v1/articles"

// ArticlesClient is the gateway's row sub-interface: queries and
// mutations on the remote articles table. The backend is the sole writer
// of id and created_at; every other field is written wholesale on save.
type ArticlesClient struct {
	c *Client
}

// ListPublished returns all published articles, newest first. This is
// the public feed query; category filtering and the trending slice
// happen client-side on the result.
func (a *ArticlesClient) ListPublished(ctx context.Context) ([]models.Article, error) {
	return a.list(ctx, "", url.Values{
		"select":       {"*"},
		"is_published": {"eq.true"},
		"order":        {"created_at.desc"},
	})
}

// ListAll returns every article including drafts, newest first. Requires
// an admin session token; the dashboard is the only caller.
func (a *ArticlesClient) ListAll(ctx context.Context, token string) ([]models.Article, error) {
	return a.list(ctx, token, url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	})
}

// FindBySlug returns the single article with the given slug, or
// ErrNotFound when no row matches.
func (a *ArticlesClient) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	rows, err := a.list(ctx, "", url.Values{
		"select": {"*"},
		"slug":   {"eq." + slug},
		"limit":  {"1"},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// FindByID returns the single article with the given id, drafts
// included, or ErrNotFound when no row matches. Requires an admin token
// since drafts are invisible to anonymous reads.
func (a *ArticlesClient) FindByID(ctx context.Context, token string, id uuid.UUID) (*models.Article, error) {
	rows, err := a.list(ctx, token, url.Values{
		"select": {"*"},
		"id":     {"eq." + id.String()},
		"limit":  {"1"},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// insertPayload is the field set sent on create. The backend assigns id
// and created_at, so they are deliberately absent.
type insertPayload struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Category    string       `json:"category"`
	Author      string       `json:"author"`
	ImageURL    string       `json:"image_url"`
	IsPublished bool         `json:"is_published"`
	ViewsCount  models.Count `json:"views_count"`
	LikesCount  models.Count `json:"likes_count"`
	AdImage     string       `json:"ad_image"`
	AdLink      string       `json:"ad_link"`
}

// Insert creates one row from the article's field set and returns the
// stored row, including the backend-assigned id and created_at. A slug
// collision comes back as an APIError for the editor to surface.
func (a *ArticlesClient) Insert(ctx context.Context, token string, article *models.Article) (*models.Article, error) {
	payload := insertPayload{
		Slug:        article.Slug,
		Title:       article.Title,
		Content:     article.Content,
		Category:    article.Category,
		Author:      article.Author,
		ImageURL:    article.ImageURL,
		IsPublished: article.IsPublished,
		ViewsCount:  article.ViewsCount,
		LikesCount:  article.LikesCount,
		AdImage:     article.AdImage,
		AdLink:      article.AdLink,
	}

	// Prefer: return=representation makes the insert echo the stored row.
	var rows []models.Article
	err := a.c.do(ctx, http.MethodPost, articlesPath, token, payload,
		map[string]string{"Prefer": "return=representation"}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: "insert returned no row"}
	}
	created := rows[0]
	created.Normalize()
	return &created, nil
}

// Update overwrites the named field subset on the row with the given id.
// The editor sends every mutable field; the counter paths send one.
func (a *ArticlesClient) Update(ctx context.Context, token string, id uuid.UUID, fields map[string]any) error {
	q := url.Values{"id": {"eq." + id.String()}}
	return a.c.do(ctx, http.MethodPatch, articlesPath+"?"+q.Encode(), token, fields, nil, nil)
}

// Delete removes the row with the given id. Destructive and final.
func (a *ArticlesClient) Delete(ctx context.Context, token string, id uuid.UUID) error {
	q := url.Values{"id": {"eq." + id.String()}}
	return a.c.do(ctx, http.MethodDelete, articlesPath+"?"+q.Encode(), token, nil, nil, nil)
}

// IncrementViews bumps the view counter through the backend's stored
// procedure. The increment is atomic server-side, so concurrent readers
// cannot lose updates the way a read-then-write would.
func (a *ArticlesClient) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return a.rpc(ctx, "increment_views", id)
}

// IncrementLikes bumps the like counter through the backend's stored
// procedure. Per-visitor idempotence is enforced by the caller, not here.
func (a *ArticlesClient) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	return a.rpc(ctx, "increment_likes", id)
}

// rpc invokes a named stored procedure with the row id argument.
func (a *ArticlesClient) rpc(ctx context.Context, name string, id uuid.UUID) error {
	body := map[string]string{"row_id": id.String()}
	return a.c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+name, "", body, nil, nil)
}

// list performs a filtered select and normalizes every returned row.
func (a *ArticlesClient) list(ctx context.Context, token string, q url.Values) ([]models.Article, error) {
	var rows []models.Article
	if err := a.c.do(ctx, http.MethodGet, articlesPath+"?"+q.Encode(), token, nil, nil, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Normalize()
	}
	return rows, nil
}
