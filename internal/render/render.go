// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin interface. Page templates are paired with the base layout at
// startup; a few templates render standalone with their own <html> shell.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"newsdesk/internal/middleware"
	"newsdesk/internal/prefs"
	"newsdesk/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "home", "dashboard")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and fetch headers
	Settings  prefs.Settings // Visitor display preferences (theme, text size)
	Data      map[string]any // Page-specific data
	Flash     string         // One-time notice rendered at the top of the page
	Error     string         // Form-level error message, re-rendered with input intact
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout.
// When devMode is true, templates load CDN-hosted assets.
func New(devMode bool) (*Renderer, error) {
	funcMap := template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "bg-gray-900 text-white"
			}
			return "text-gray-500 hover:text-gray-900"
		},
		// isDev returns true when the app runs in development mode.
		"isDev": func() bool {
			return devMode
		},
		// formatDate renders a timestamp the way article cards show it.
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		// excerpt produces a plain-text teaser from markdown content.
		"excerpt": func(content string) string {
			return Excerpt(content, 160)
		},
		// addOne converts zero-based range indexes to display ranks.
		"addOne": func(i int) int {
			return i + 1
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template)}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := filepath.Base(e.Name())
		if name == "base.html" {
			continue
		}

		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error

		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
				templateFS, "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/"+name,
			)
		}

		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page using the named template. The session, CSRF
// token, and display preferences are filled in from the request when the
// caller hasn't set them already.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, name, http.StatusOK, data)
}

// PageStatus is Page with an explicit response status code, used for
// not-found and validation-error responses.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	if data.CSRFToken == "" {
		data.CSRFToken = middleware.GetCSRFToken(r)
	}
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Settings == (prefs.Settings{}) {
		data.Settings = prefs.Load(r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// Excerpt strips markdown markers from content and truncates it to max
// runes on a word boundary, appending an ellipsis when cut.
func Excerpt(content string, max int) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>*- ")
		if line == "" || line == "[[AD]]" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
		if b.Len() >= max*4 {
			break
		}
	}

	text := strings.ReplaceAll(b.String(), "**", "")
	text = strings.ReplaceAll(text, "`", "")

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	// Cut on the last word boundary before the limit.
	cut := max
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return strings.TrimSpace(string(runes[:cut])) + "…"
}
