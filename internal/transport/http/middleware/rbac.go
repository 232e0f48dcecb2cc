package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/web"
)

func decide(r *http.Request, allowed auth.RoleSet) (auth.Decision, *auth.Identity) {
	var caller *auth.Identity
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		caller = &identity
	}
	return auth.Authorize(caller, allowed), caller
}

func logDenied(r *http.Request, caller *auth.Identity, allowed auth.RoleSet, collector *metrics.Collector) {
	if collector != nil {
		collector.RecordForbidden()
	}
	slog.Warn("access denied",
		"path", r.URL.Path,
		"userId", caller.UserID,
		"role", caller.Role,
		"allowed", allowed.String(),
		"requestId", GetRequestID(r.Context()),
	)
}

// RequireRoles guards server-rendered pages. Anonymous callers go to the
// login page with a way back; callers without the role go to their own home.
func RequireRoles(allowed auth.RoleSet, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, caller := decide(r, allowed)
			switch decision.Outcome {
			case auth.Permitted:
				next.ServeHTTP(w, r)
			case auth.Unauthenticated:
				target := decision.RedirectTo
				if r.Method == http.MethodGet {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				web.Redirect(w, r, target, web.Info("Please log in to continue."))
			default:
				logDenied(r, caller, allowed, collector)
				web.Redirect(w, r, decision.RedirectTo, web.Warning("You do not have access to that page."))
			}
		})
	}
}

// RequireRolesJSON is the API variant of the same gate.
func RequireRolesJSON(allowed auth.RoleSet, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, caller := decide(r, allowed)
			switch decision.Outcome {
			case auth.Permitted:
				next.ServeHTTP(w, r)
			case auth.Unauthenticated:
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			default:
				logDenied(r, caller, allowed, collector)
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
			}
		})
	}
}
