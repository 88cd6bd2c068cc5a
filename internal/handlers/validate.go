package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for story form fields.
const (
	maxTitleLen   = 300
	maxContentLen = 100_000
	maxAuthorLen  = 100
	maxAdURLLen   = 2_000
)

// validateArticle checks story form inputs and returns the first error found.
func validateArticle(title, content, author, adImage, adLink string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "Author name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(adImage) > maxAdURLLen || utf8.RuneCountInString(adLink) > maxAdURLLen {
		return "Ad URLs are too long (max 2,000 characters)."
	}
	return ""
}
