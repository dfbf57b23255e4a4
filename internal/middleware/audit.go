package middleware

import (
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/enablementhq/tracker-api/internal/logger"
	"github.com/enablementhq/tracker-api/internal/request"
)

// Audit emits a warn-level line for responses worth a second look: auth
// rejections and rate limit trips. These feed the same log stream as
// Logging but at a level alerting can key on.
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			var event string
			switch rec.status {
			case http.StatusUnauthorized, http.StatusForbidden:
				event = "security_event"
			case http.StatusTooManyRequests:
				event = "rate_limit_violation"
			default:
				return
			}

			ip := request.ClientIP(r)
			logger.Warn(event,
				zap.Int("status_code", rec.status),
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeString(ip, logpkg.MaxGeneralStringLength)),
			)
		})
	}
}
