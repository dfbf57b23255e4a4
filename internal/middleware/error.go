package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/enablementhq/tracker-api/internal/logger"
)

// ErrorResponse is the JSON envelope returned when a request cannot be
// served. Handlers render their own validation errors; this shape is for
// failures caught at the middleware layer.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// ErrorHandler converts panics escaping a handler into a generic 500
// response. A panic mid-request (a nil activity pointer, a bad cadence
// cast) must not tear down the connection or leak internals to the client.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				logger.Error("panic_recovered",
					zap.Any("panic", recovered),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.ByteString("stack", debug.Stack()),
				)
				writeErrorEnvelope(w, r, http.StatusInternalServerError,
					"Internal Server Error", "An unexpected error occurred", logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorEnvelope writes an ErrorResponse with the given status. The
// client sees the original request path, not the sanitized one used for
// logging.
func writeErrorEnvelope(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	envelope := ErrorResponse{
		Error:     errorType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	}
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		// The status line is already on the wire; all we can do is note it.
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		)
	}
}
