// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/backend"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/render"
	"newsdesk/internal/slug"
	"newsdesk/internal/storage"
)

// MaxUploadSize is the maximum allowed cover image upload size (10 MB).
// The router caps whole request bodies slightly above this so the cap
// engages before any form parsing.
const MaxUploadSize = 10 << 20

// allowedImageTypes defines MIME types accepted for cover uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Admin groups handlers for the editor dashboard and story CRUD. All
// writes go straight to the backend using the editor's access token;
// nothing is persisted locally. storageClient may be nil when object
// storage is not configured, which disables cover uploads.
type Admin struct {
	renderer      *render.Renderer
	gateway       *backend.Client
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, gateway *backend.Client, storageClient *storage.Client) *Admin {
	return &Admin{
		renderer:      renderer,
		gateway:       gateway,
		storageClient: storageClient,
	}
}

// Dashboard lists every story, drafts included, newest first.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	articles, err := a.gateway.Articles.ListAll(r.Context(), sess.AccessToken)
	if err != nil {
		slog.Error("list stories failed", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"Articles": articles},
	})
}

// NewForm renders an empty story editor.
func (a *Admin) NewForm(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "editor", &render.PageData{
		Title:   "New story",
		Section: "dashboard",
		Data:    a.editorData(models.Article{Category: models.DefaultCategory}, true),
	})
}

// Create validates the story form, derives the permalink slug from the
// title, uploads the cover image if one was attached, and inserts the
// story through the backend. Validation failures and backend rejections
// re-render the editor with everything the editor typed still in place.
func (a *Admin) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	draft, formErr := a.parseStoryForm(r)
	if formErr != "" {
		a.editorError(w, r, draft, true, formErr)
		return
	}

	draft.Slug = slug.Generate(draft.Title)
	if draft.Slug == "" {
		a.editorError(w, r, draft, true, "Title must contain at least one letter or number.")
		return
	}

	created, err := a.gateway.Articles.Insert(r.Context(), sess.AccessToken, &draft)
	if err != nil {
		a.editorError(w, r, draft, true, backendMessage(err, "The story could not be saved."))
		return
	}

	slog.Info("story created", "id", created.ID, "slug", created.Slug)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// EditForm renders the editor pre-filled with an existing story.
func (a *Admin) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	article, ok := a.findByID(w, r, sess.AccessToken)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "editor", &render.PageData{
		Title:   "Edit story",
		Section: "dashboard",
		Data:    a.editorData(*article, false),
	})
}

// Update saves changes to an existing story. The slug never changes once
// a story exists, so published permalinks keep working after a retitle.
func (a *Admin) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	draft, formErr := a.parseStoryForm(r)
	draft.ID = id
	if formErr != "" {
		a.editorError(w, r, draft, false, formErr)
		return
	}

	fields := map[string]any{
		"title":        draft.Title,
		"content":      draft.Content,
		"category":     draft.Category,
		"author":       draft.Author,
		"image_url":    draft.ImageURL,
		"ad_image":     draft.AdImage,
		"ad_link":      draft.AdLink,
		"is_published": draft.IsPublished,
		"views_count":  draft.ViewsCount,
		"likes_count":  draft.LikesCount,
	}

	if err := a.gateway.Articles.Update(r.Context(), sess.AccessToken, id, fields); err != nil {
		a.editorError(w, r, draft, false, backendMessage(err, "The story could not be saved."))
		return
	}

	// A freshly uploaded cover replaced the old one; drop the orphan.
	if prior := r.FormValue("image_url"); prior != "" && prior != draft.ImageURL {
		a.cleanupCover(prior)
	}

	slog.Info("story updated", "id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeleteConfirm renders the deletion confirmation page. Deletion is the
// only destructive operation in the editor, so it never runs off a bare
// link.
func (a *Admin) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	article, ok := a.findByID(w, r, sess.AccessToken)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "delete", &render.PageData{
		Title:   "Delete story",
		Section: "dashboard",
		Data:    map[string]any{"Article": article},
	})
}

// Delete removes a story permanently.
func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := a.gateway.Articles.Delete(r.Context(), sess.AccessToken, id); err != nil {
		slog.Error("story delete failed", "id", id, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	slog.Info("story deleted", "id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// parseStoryForm reads the multipart editor form into an Article draft.
// The returned draft always carries whatever the editor submitted, valid
// or not, so error re-renders never lose typed work. A non-empty string
// return is a user-facing validation or upload error. The body size cap
// sits in the middleware chain, ahead of CSRF form parsing; by the time
// this runs the body is already within bounds.
func (a *Admin) parseStoryForm(r *http.Request) (models.Article, string) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return models.Article{Category: models.DefaultCategory}, "The form could not be read. Please try again."
	}

	draft := models.Article{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Content:     r.FormValue("content"),
		Category:    r.FormValue("category"),
		Author:      strings.TrimSpace(r.FormValue("author")),
		ImageURL:    r.FormValue("image_url"),
		AdImage:     strings.TrimSpace(r.FormValue("ad_image")),
		AdLink:      strings.TrimSpace(r.FormValue("ad_link")),
		IsPublished: r.FormValue("is_published") == "true",
		// Counter fields are editable; garbage input becomes zero rather
		// than an error.
		ViewsCount: models.ParseCount(r.FormValue("views_count")),
		LikesCount: models.ParseCount(r.FormValue("likes_count")),
	}
	draft.Normalize()

	if msg := validateArticle(draft.Title, draft.Content, draft.Author, draft.AdImage, draft.AdLink); msg != "" {
		return draft, msg
	}

	url, msg := a.uploadCover(r)
	if msg != "" {
		return draft, msg
	}
	if url != "" {
		draft.ImageURL = url
	}

	return draft, ""
}

// uploadCover stores an attached cover image and returns its public URL.
// An empty file input is not an error; the existing image_url stands.
func (a *Admin) uploadCover(r *http.Request) (string, string) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", ""
	}
	if err != nil {
		return "", "The cover image could not be read."
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		return "", "Upload too large. Maximum cover image size is 10 MB."
	}

	if a.storageClient == nil {
		return "", "Object storage is not configured; cover uploads are disabled."
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", "Cover images must be JPEG, PNG, GIF, or WebP."
	}

	key := storage.ObjectKey(header.Filename)
	url, err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		slog.Error("cover upload failed", "key", key, "error", err)
		return "", "The cover image could not be uploaded. Please try again."
	}

	return url, ""
}

// cleanupCover deletes a replaced cover object in the background. Only
// URLs under this deployment's own bucket are touched.
func (a *Admin) cleanupCover(url string) {
	if a.storageClient == nil {
		return
	}
	key, ok := a.storageClient.KeyFromURL(url)
	if !ok {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.storageClient.Delete(ctx, key); err != nil {
			slog.Warn("replaced cover cleanup failed", "key", key, "error", err)
		}
	}()
}

// findByID loads a story by the {id} route parameter using the editor's
// token, writing the error response itself when the lookup fails.
func (a *Admin) findByID(w http.ResponseWriter, r *http.Request, token string) (*models.Article, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	article, err := a.gateway.Articles.FindByID(r.Context(), token, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		slog.Error("story lookup failed", "id", id, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return nil, false
	}

	return article, true
}

func (a *Admin) editorData(article models.Article, isNew bool) map[string]any {
	action := fmt.Sprintf("/admin/articles/%s/edit", article.ID)
	if isNew {
		action = "/admin/articles/new"
	}
	return map[string]any{
		"Article":    article,
		"Categories": models.Categories,
		"IsNew":      isNew,
		"Action":     action,
	}
}

func (a *Admin) editorError(w http.ResponseWriter, r *http.Request, draft models.Article, isNew bool, msg string) {
	a.renderer.PageStatus(w, r, "editor", http.StatusUnprocessableEntity, &render.PageData{
		Title:   "Edit story",
		Section: "dashboard",
		Error:   msg,
		Data:    a.editorData(draft, isNew),
	})
}

// backendMessage surfaces the backend's own rejection message (duplicate
// slug, row-level security, etc.) when one exists, and falls back to a
// generic line for transport failures.
func backendMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	slog.Error("backend write failed", "error", err)
	return fallback
}
