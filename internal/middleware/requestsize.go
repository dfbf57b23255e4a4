package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize caps request bodies at 1MB. The largest legitimate
// payload is an activity with notes; nothing the API accepts comes close
// to a megabyte.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize rejects oversized bodies. A declared Content-Length over
// the cap is refused up front; bodies without one are clamped by
// MaxBytesReader so a handler's decode fails partway instead of buffering
// without bound.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
