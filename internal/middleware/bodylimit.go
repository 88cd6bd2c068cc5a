// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
)

// MaxBytes caps the request body at limit bytes. It must run ahead of
// anything that parses form bodies (the CSRF middleware in particular),
// otherwise an oversized multipart upload gets fully read into memory
// and temp files before any handler-level cap can engage. Requests
// declaring a larger Content-Length are rejected up front; bodies
// without a declared length are cut off at the limit mid-read.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
