// Package web provides embedded static assets (CSS, JS) for the site.
// In development, templates load TailwindCSS from CDN; in production,
// the compiled file is embedded here and served at /static/.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var staticFS embed.FS

// Static returns the asset tree rooted at the files themselves, ready
// for http.FileServer.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
