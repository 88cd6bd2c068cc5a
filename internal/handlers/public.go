// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chirender "github.com/go-chi/render"
	"github.com/google/uuid"

	"newsdesk/internal/backend"
	"newsdesk/internal/markdown"
	"newsdesk/internal/models"
	"newsdesk/internal/prefs"
	"newsdesk/internal/render"
	"newsdesk/internal/session"
)

// trendingCount is how many stories the sidebar rail shows.
const trendingCount = 5

// Public groups handlers for the public-facing site: the front page with
// its category filter, story pages, the like endpoint, and display
// preference toggles.
type Public struct {
	renderer *render.Renderer
	gateway  *backend.Client
	sessions *session.Store
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, gateway *backend.Client, sessions *session.Store) *Public {
	return &Public{
		renderer: renderer,
		gateway:  gateway,
		sessions: sessions,
	}
}

// Home renders the front page: published stories newest first, optionally
// narrowed by the ?category= query parameter, plus the trending rail.
// The trending rail always shows the newest stories regardless of filter.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	articles, err := p.gateway.Articles.ListPublished(r.Context())
	if err != nil {
		slog.Error("list published stories failed", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.CategoryAll
	}

	p.renderer.Page(w, r, "home", &render.PageData{
		Title:   "Latest stories",
		Section: "home",
		Data: map[string]any{
			"Articles":       models.FilterByCategory(articles, category),
			"Trending":       models.Trending(articles, trendingCount),
			"Categories":     models.Categories,
			"ActiveCategory": category,
		},
	})
}

// Article renders a single published story looked up by slug. Unknown
// slugs get a dedicated not-found page. Each render counts as a view;
// the counter update runs in the background so a slow backend never
// delays the page.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	article, err := p.gateway.Articles.FindBySlug(r.Context(), slugParam)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			p.renderer.PageStatus(w, r, "article_notfound", http.StatusNotFound, &render.PageData{
				Title: "Story not found",
			})
			return
		}
		slog.Error("story lookup failed", "slug", slugParam, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	segments, err := markdown.Segments(article.Content)
	if err != nil {
		slog.Error("story render failed", "slug", slugParam, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	visitorID := p.sessions.VisitorID(w, r)
	liked, err := p.sessions.HasLiked(r.Context(), visitorID, article.ID)
	if err != nil {
		slog.Warn("like lookup failed", "error", err)
	}

	// Count the view without blocking the response. The request context
	// dies with the response, so the update gets its own.
	go p.countView(article.ID)

	p.renderer.Page(w, r, "article", &render.PageData{
		Title: article.Title,
		Data: map[string]any{
			"Article":     article,
			"Segments":    segments,
			"LastSegment": len(segments) - 1,
			"Liked":       liked,
		},
	})
}

// likeResponse is the JSON body returned by the like endpoint.
type likeResponse struct {
	Likes models.Count `json:"likes"`
	Liked bool         `json:"liked"`
}

// Like records a like for a story. Each visitor can like a story once;
// repeat requests report the current state without touching the counter.
func (p *Public) Like(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	article, err := p.gateway.Articles.FindBySlug(r.Context(), slugParam)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			chirender.Status(r, http.StatusNotFound)
			chirender.JSON(w, r, map[string]string{"error": "story not found"})
			return
		}
		slog.Error("story lookup failed", "slug", slugParam, "error", err)
		chirender.Status(r, http.StatusServiceUnavailable)
		chirender.JSON(w, r, map[string]string{"error": "backend unavailable"})
		return
	}

	visitorID := p.sessions.VisitorID(w, r)
	first, err := p.sessions.MarkLiked(r.Context(), visitorID, article.ID)
	if err != nil {
		slog.Error("like guard failed", "error", err)
		chirender.Status(r, http.StatusServiceUnavailable)
		chirender.JSON(w, r, map[string]string{"error": "try again later"})
		return
	}

	likes := article.LikesCount
	if first {
		if err := p.gateway.Articles.IncrementLikes(r.Context(), article.ID); err != nil {
			slog.Error("like increment failed", "slug", slugParam, "error", err)
		} else {
			likes++
		}
	}

	chirender.JSON(w, r, likeResponse{Likes: likes, Liked: true})
}

// ToggleTheme flips the visitor's light/dark preference and sends them
// back where they came from.
func (p *Public) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	settings := prefs.Load(r)
	settings.ToggleTheme()
	prefs.Save(w, settings)
	redirectBack(w, r)
}

// ToggleTextSize flips the visitor's text size preference.
func (p *Public) ToggleTextSize(w http.ResponseWriter, r *http.Request) {
	settings := prefs.Load(r)
	settings.ToggleTextSize()
	prefs.Save(w, settings)
	redirectBack(w, r)
}

// redirectBack returns the visitor to the referring page, or the front
// page when no referrer is present. Only the path portion is used, so
// the Referer header can't redirect off-site.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Path != "" {
		target = ref.Path
		if ref.RawQuery != "" {
			target += "?" + ref.RawQuery
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// countView bumps a story's view counter in the background with its own
// deadline, detached from the page request. Failures are logged and
// dropped; a missed view never breaks a page.
func (p *Public) countView(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.gateway.Articles.IncrementViews(ctx, id); err != nil {
		slog.Warn("view increment failed", "article_id", id, "error", err)
	}
}
