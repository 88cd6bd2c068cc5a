// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article bodies into HTML using goldmark and
// splits them on the ad-break marker so a sponsored unit can render
// between segments.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// AdMarker is the token authors embed in content where an ad break
// should appear.
const AdMarker = "[[AD]]"

// md is the configured goldmark instance, reused across calls. Raw HTML
// in article bodies is escaped, not passed through: bodies are authored
// as Markdown or plain text and never trusted as HTML.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting( // fenced code blocks
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Segments splits content on the ad marker and converts each piece to
// HTML. The article template renders the sponsored unit between
// consecutive segments, so a body without markers yields one segment
// and no ad breaks.
func Segments(content string) ([]template.HTML, error) {
	parts := strings.Split(content, AdMarker)
	segments := make([]template.HTML, 0, len(parts))
	for _, part := range parts {
		html, err := ToHTML(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, html)
	}
	return segments, nil
}
