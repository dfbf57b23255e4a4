package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single request. Command parsing and
// schedule math are cheap; anything running this long is stuck on the
// database or the broker.
const DefaultRequestTimeout = 30 * time.Second

// Timeout caps handler execution at the given duration, answering 503 on
// expiry. The deadline also lands on the request context so repository
// calls in flight get cancelled rather than left running.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		capped := http.TimeoutHandler(next, timeout, "Request Timeout")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			capped.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
