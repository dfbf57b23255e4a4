// Package request holds per-request helpers shared by the middleware and
// handler layers: the authenticated user stashed on the context, and
// client IP extraction for rate limiting and audit logs.
package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/enablementhq/tracker-api/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContextKey returns the context key the auth middleware stores the
// user under. Exposed for tests that inject non-user values.
func UserContextKey() contextKey { return userContextKey }

// ClientIP resolves the originating client address. Behind the load
// balancer the peer address is the proxy, so forwarded headers win when
// present: the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user the auth middleware attached, or nil
// when the request never passed through auth or the value is the wrong
// type.
func UserFromContext(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey).(*models.User)
	return u
}
