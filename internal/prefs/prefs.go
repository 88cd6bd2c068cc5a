// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prefs holds the reader's presentational settings: light/dark
// theme and text size. Settings live in a browser cookie, are loaded per
// request, and are written back through the single Save function. They
// never reach the backend and don't affect the article store.
package prefs

import (
	"net/http"
	"net/url"
	"time"
)

const (
	// CookieName stores the encoded settings in the reader's browser.
	CookieName = "nd_prefs"

	// cookieTTL keeps settings for a year, refreshed on every save.
	cookieTTL = 365 * 24 * time.Hour
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Text size values.
const (
	SizeNormal = "normal"
	SizeLarge  = "large"
)

// Settings is the per-browser preference state.
type Settings struct {
	Theme    string
	TextSize string
}

// Default returns the settings used before the reader changes anything.
func Default() Settings {
	return Settings{Theme: ThemeLight, TextSize: SizeNormal}
}

// Load reads settings from the request cookie, falling back to defaults
// for a missing cookie or unknown values.
func Load(r *http.Request) Settings {
	s := Default()

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return s
	}
	values, err := url.ParseQuery(cookie.Value)
	if err != nil {
		return s
	}

	if theme := values.Get("theme"); theme == ThemeDark {
		s.Theme = ThemeDark
	}
	if size := values.Get("size"); size == SizeLarge {
		s.TextSize = SizeLarge
	}
	return s
}

// Save persists settings back to the browser. All preference writes
// funnel through here so the cookie encoding stays in one place.
func Save(w http.ResponseWriter, s Settings) {
	values := url.Values{
		"theme": {s.Theme},
		"size":  {s.TextSize},
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    values.Encode(),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieTTL.Seconds()),
	})
}

// ToggleTheme flips between light and dark.
func (s *Settings) ToggleTheme() {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
}

// ToggleTextSize flips between normal and large.
func (s *Settings) ToggleTextSize() {
	if s.TextSize == SizeLarge {
		s.TextSize = SizeNormal
	} else {
		s.TextSize = SizeLarge
	}
}

// BodyClass returns the CSS classes the base layout puts on <body>.
func (s Settings) BodyClass() string {
	class := "theme-light"
	if s.Theme == ThemeDark {
		class = "theme-dark"
	}
	if s.TextSize == SizeLarge {
		class += " text-large"
	}
	return class
}
