package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/web"
)

const SessionCookie = "hr_session"

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (auth.Identity, error)
}

// Session resolves the session cookie, or a bearer token for API clients,
// into an identity on the request context. A stale cookie is cleared; a store
// failure keeps the cookie and fails the request.
func Session(resolver SessionResolver, secureCookie bool, rd *web.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveSession(r.Context(), token)
			if err != nil && !staleSession(err) {
				if fromCookie {
					rd.Fault(w, r, err)
					return
				}
				slog.Error("session lookup failed", "err", err, "path", r.URL.Path, "requestId", GetRequestID(r.Context()))
				api.Fail(w, http.StatusInternalServerError, "internal_error", "session lookup failed", GetRequestID(r.Context()))
				return
			}
			if err != nil {
				if fromCookie {
					ClearSessionCookie(w, secureCookie)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func staleSession(err error) bool {
	return errors.Is(err, auth.ErrSessionInvalid) || errors.Is(err, auth.ErrNotFound)
}

func sessionToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1], false
	}
	return "", false
}

func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	return auth.IdentityFromContext(ctx)
}
