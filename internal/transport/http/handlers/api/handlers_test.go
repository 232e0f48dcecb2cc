package apihandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/transport/http/api"
)

func TestClockRejectsBadPayload(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "not json", body: "action=clock_in", code: "invalid_payload"},
		{name: "unknown action", body: `{"action":"lunch_break"}`, code: "invalid_action"},
		{name: "missing action", body: `{}`, code: "invalid_action"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var env api.Envelope
			if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
