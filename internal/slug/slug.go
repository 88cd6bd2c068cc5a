// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from article titles.
package slug

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches every run of characters that isn't a lowercase
// letter or digit. Each run becomes a single hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given title.
// Example: "My First Post!" → "my-first-post"
//
// The slug is derived once, when an article is created, and never
// recomputed on later title edits. An empty result (all-symbol title)
// must be rejected by the caller before saving.
func Generate(title string) string {
	result := strings.ToLower(title)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
