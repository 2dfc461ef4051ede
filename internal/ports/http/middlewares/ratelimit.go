package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/httpx"
)

// RateLimit caps requests per client IP across all verification endpoints.
// Every accepted code request costs an outbound email, so the budget is
// deliberately small.
func RateLimit(requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if logger != nil {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", r.RemoteAddr),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
				)
			}
			e := errorx.NewRateLimitExceeded()
			httpx.WriteJSON(w, e.HTTPStatusCode(), httpx.Envelope{
				"code":    e.Code,
				"message": "rate limit exceeded, please try again later",
				"success": false,
			}, nil)
		}),
	)
}
