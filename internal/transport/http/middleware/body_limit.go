package middleware

import (
	"log/slog"
	"net/http"

	"hrportal/internal/transport/http/web"
)

// BodyLimit caps request bodies at maxBytes. A declared length over the cap
// is refused before reading; anything else is cut off while the form is
// parsed and surfaces as a form read error in the handler.
func BodyLimit(maxBytes int64, rd *web.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 || r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				slog.Warn("request body too large", "path", r.URL.Path, "bytes", r.ContentLength, "limit", maxBytes, "requestId", GetRequestID(r.Context()))
				rd.Error(w, r, http.StatusRequestEntityTooLarge, "The upload is too large. Please choose a smaller file.")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
