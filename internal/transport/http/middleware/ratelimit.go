package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

// LoginRateLimit throttles credential submissions per client address.
// rate uses the limiter format, for example "10-M".
func LoginRateLimit(rate string, rd *web.Renderer) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), parsed)

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			return "login:" + shared.ClientIP(r)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("login rate limit exceeded",
				"ip", shared.ClientIP(r),
				"limit", parsed.Limit,
				"requestId", GetRequestID(r.Context()),
			)
			rd.Error(w, r, http.StatusTooManyRequests, "Too many login attempts. Please wait a minute and try again.")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("rate limiter failed", "err", err, "requestId", GetRequestID(r.Context()))
			rd.Error(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}),
	)
	return mw.Handler, nil
}
