package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrportal/internal/domain/auth"
)

func newTestRenderer(t *testing.T, features map[string]bool) *Renderer {
	t.Helper()
	rd, err := NewRenderer(time.FixedZone("WIB", 7*3600), features)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return rd
}

func TestRendererParsesAllPages(t *testing.T) {
	rd := newTestRenderer(t, nil)
	for _, page := range []string{
		"login", "error", "admin_dashboard", "admin_audit", "hr_dashboard",
		"employees", "employee_form", "employee_detail", "employee_personal", "employee_input",
		"clients", "contracts", "attendance_dashboard", "attendance_clock",
		"operation", "operation_detail", "employee_home", "client_dashboard",
	} {
		if _, ok := rd.pages[page]; !ok {
			t.Fatalf("page %s not parsed", page)
		}
	}
	if _, ok := rd.pages["_employee_fields"]; ok {
		t.Fatal("partials must not be registered as pages")
	}
}

func TestRenderEmptyPages(t *testing.T) {
	rd := newTestRenderer(t, map[string]bool{"employee_input": true})
	identity := auth.Identity{UserID: "u1", Username: "hr", Role: auth.RoleHR}

	for page := range rd.pages {
		page := page
		t.Run(page, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
			rec := httptest.NewRecorder()
			var data any
			if page == "login" {
				data = struct{ Username, Next string }{}
			}
			if page == "error" {
				data = errorPage{Status: 404, Message: "missing"}
			}
			rd.Render(rec, req, http.StatusOK, page, "Test", data)
			if rec.Code != http.StatusOK {
				t.Fatalf("render %s: status %d body %s", page, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRenderNavFollowsRoleAndFeatures(t *testing.T) {
	tests := []struct {
		name     string
		role     auth.Role
		features map[string]bool
		want     []string
		absent   []string
	}{
		{name: "hr with intake", role: auth.RoleHR, features: map[string]bool{"employee_input": true}, want: []string{"/hr/employees/input", "/hr/clients"}, absent: []string{"/admin/audit"}},
		{name: "hr without intake", role: auth.RoleHR, features: map[string]bool{}, absent: []string{"/hr/employees/input"}},
		{name: "admin", role: auth.RoleAdmin, features: map[string]bool{"admin": true}, want: []string{"/admin/audit", "/hr/dashboard"}},
		{name: "admin tools disabled", role: auth.RoleAdmin, features: map[string]bool{}, want: []string{"/admin/dashboard"}, absent: []string{"/admin/audit"}},
		{name: "client enabled", role: auth.RoleClient, features: map[string]bool{"client": true}, want: []string{"/client/dashboard"}, absent: []string{"/hr/dashboard"}},
		{name: "client disabled", role: auth.RoleClient, features: map[string]bool{}, absent: []string{"/client/dashboard"}},
		{name: "employee", role: auth.RoleEmployee, want: []string{"/employee/dashboard"}, absent: []string{"/hr/dashboard"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rd := newTestRenderer(t, tc.features)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{UserID: "u", Username: "x", Role: tc.role}))
			rec := httptest.NewRecorder()
			rd.Error(rec, req, http.StatusNotFound, "nothing here")

			body := rec.Body.String()
			for _, want := range tc.want {
				if !strings.Contains(body, `href="`+want+`"`) {
					t.Fatalf("expected link %s", want)
				}
			}
			for _, absent := range tc.absent {
				if strings.Contains(body, `href="`+absent+`"`) {
					t.Fatalf("unexpected link %s", absent)
				}
			}
		})
	}
}

func TestRenderShowsFlashOnce(t *testing.T) {
	rd := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	Redirect(rec, httptest.NewRequest(http.MethodPost, "/x", nil), "/auth/login", Warning("Please <b>log in</b>."))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	page := httptest.NewRecorder()
	rd.Error(page, req, http.StatusForbidden, "denied")

	body := page.Body.String()
	if !strings.Contains(body, "Please &lt;b&gt;log in&lt;/b&gt;.") {
		t.Fatalf("expected escaped flash in body: %s", body)
	}
	cleared := false
	for _, c := range page.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the flash cookie to be cleared after rendering")
	}
}

func TestFormatters(t *testing.T) {
	rd := newTestRenderer(t, nil)
	instant := time.Date(2024, 3, 4, 1, 5, 0, 0, time.UTC)
	if got := rd.formatClock(&instant); got != "08:05" {
		t.Fatalf("clock in local zone: got %s", got)
	}
	if got := rd.formatClock(nil); got != "-" {
		t.Fatalf("nil clock: got %s", got)
	}
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := rd.formatDate(day); got != "04 Mar 2024" {
		t.Fatalf("date: got %s", got)
	}
	var missing *time.Time
	if got := rd.formatDate(missing); got != "-" {
		t.Fatalf("nil date: got %s", got)
	}
	if got := rd.formatDateTime(instant); got != "04 Mar 2024 08:05" {
		t.Fatalf("datetime: got %s", got)
	}
}
