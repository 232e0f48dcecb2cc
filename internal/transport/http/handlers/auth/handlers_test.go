package authhandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/web"
)

type fakeAccounts struct {
	accounts map[string]auth.Account
	password string
	failWith error
	ended    []string
}

func (f *fakeAccounts) Authenticate(_ context.Context, username, password string) (auth.Account, error) {
	if f.failWith != nil {
		return auth.Account{}, f.failWith
	}
	acc, ok := f.accounts[username]
	if !ok {
		return auth.Account{}, auth.ErrUnknownUser
	}
	if password != f.password {
		return auth.Account{}, auth.ErrWrongPassword
	}
	if !acc.Active {
		return auth.Account{}, auth.ErrInactive
	}
	return acc, nil
}

func (f *fakeAccounts) StartSession(_ context.Context, acc auth.Account) (string, time.Time, error) {
	return "token-" + acc.ID, time.Now().Add(time.Hour), nil
}

func (f *fakeAccounts) EndSession(_ context.Context, identity auth.Identity) error {
	f.ended = append(f.ended, identity.UserID)
	return nil
}

func (f *fakeAccounts) SetActive(_ context.Context, userID string, active bool) (auth.Account, error) {
	for name, acc := range f.accounts {
		if acc.ID == userID {
			acc.Active = active
			f.accounts[name] = acc
			return acc, nil
		}
	}
	return auth.Account{}, auth.ErrNotFound
}

type stubResolver struct {
	identities map[string]auth.Identity
}

func (s stubResolver) ResolveSession(_ context.Context, token string) (auth.Identity, error) {
	identity, ok := s.identities[token]
	if !ok {
		return auth.Identity{}, auth.ErrSessionInvalid
	}
	return identity, nil
}

func newTestRouter(t *testing.T, accounts *fakeAccounts) http.Handler {
	t.Helper()
	return newFeatureRouter(t, accounts, map[string]bool{})
}

func newFeatureRouter(t *testing.T, accounts *fakeAccounts, features map[string]bool) http.Handler {
	t.Helper()
	rd, err := web.NewRenderer(time.UTC, features)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	h := NewHandler(accounts, nil, rd, false, nil)
	resolver := stubResolver{identities: map[string]auth.Identity{
		"token-u-admin": {UserID: "u-admin", Username: "admin", Role: auth.RoleAdmin, Active: true},
	}}

	r := chi.NewRouter()
	r.Use(middleware.Session(resolver, false, rd))
	h.RegisterRoutes(r)
	r.Route("/admin", h.RegisterAdminRoutes)
	return r
}

func newAccounts() *fakeAccounts {
	return &fakeAccounts{
		password: "secret",
		accounts: map[string]auth.Account{
			"admin":    {ID: "u-admin", Username: "admin", Role: auth.RoleAdmin, Active: true},
			"employee": {ID: "u-emp", Username: "employee", Role: auth.RoleEmployee, Active: true},
			"ghost":    {ID: "u-ghost", Username: "ghost", Role: auth.RoleEmployee, Active: false},
			"client":   {ID: "u-client", Username: "client", Role: auth.RoleClient, Active: true},
		},
	}
}

func postLogin(router http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// follow replays the redirect with the cookies the response set.
func follow(t *testing.T, router http.Handler, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	next := httptest.NewRecorder()
	router.ServeHTTP(next, req)
	return next
}

func TestLoginRedirects(t *testing.T) {
	tests := []struct {
		name     string
		username string
		next     string
		want     string
	}{
		{name: "employee home", username: "employee", want: "/employee/dashboard"},
		{name: "admin home", username: "admin", want: "/admin/dashboard"},
		{name: "resume next", username: "employee", next: "/employee/dashboard?tab=activity", want: "/employee/dashboard?tab=activity"},
		{name: "external next ignored", username: "admin", next: "//evil.example.com", want: "/admin/dashboard"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, newAccounts())
			rec := postLogin(router, url.Values{"username": {tc.username}, "password": {"secret"}, "next": {tc.next}})
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tc.want {
				t.Fatalf("expected redirect to %s, got %s", tc.want, got)
			}
			if c := cookieNamed(rec, middleware.SessionCookie); c == nil || c.Value == "" {
				t.Fatal("expected a session cookie")
			}
		})
	}
}

func TestLoginFailureMessages(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{name: "unknown user", username: "nobody", password: "secret", message: "Username not found."},
		{name: "wrong password", username: "employee", password: "nope", message: "Incorrect password."},
		{name: "inactive", username: "ghost", password: "secret", message: "Your account is inactive. Please contact HR."},
		{name: "blank", username: "", password: "", message: "Enter your username and password."},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, newAccounts())
			rec := postLogin(router, url.Values{"username": {tc.username}, "password": {tc.password}, "next": {"/hr/dashboard"}})
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", rec.Code)
			}
			location := rec.Header().Get("Location")
			if !strings.HasPrefix(location, auth.LoginPath) || !strings.Contains(location, "next=%2Fhr%2Fdashboard") {
				t.Fatalf("expected login redirect keeping next, got %s", location)
			}
			if cookieNamed(rec, middleware.SessionCookie) != nil {
				t.Fatal("failed login must not set a session")
			}

			page := follow(t, router, rec)
			if page.Code != http.StatusOK {
				t.Fatalf("expected login page, got %d", page.Code)
			}
			if !strings.Contains(page.Body.String(), tc.message) {
				t.Fatalf("expected %q on the login page", tc.message)
			}
		})
	}
}

func TestClientLoginFollowsClientFeature(t *testing.T) {
	tests := []struct {
		name     string
		features map[string]bool
		wantHome bool
	}{
		{name: "client portal enabled", features: map[string]bool{web.FeatureClient: true}, wantHome: true},
		{name: "client portal disabled", features: map[string]bool{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := newFeatureRouter(t, newAccounts(), tc.features)
			rec := postLogin(router, url.Values{"username": {"client"}, "password": {"secret"}})
			location := rec.Header().Get("Location")
			session := cookieNamed(rec, middleware.SessionCookie)

			if tc.wantHome {
				if location != "/client/dashboard" || session == nil {
					t.Fatalf("expected client home with a session, got %s", location)
				}
				return
			}
			if !strings.HasPrefix(location, auth.LoginPath) || session != nil {
				t.Fatalf("expected login redirect without a session, got %s", location)
			}
			page := follow(t, router, rec)
			if !strings.Contains(page.Body.String(), clientPortalDisabled) {
				t.Fatal("expected the disabled portal message on the login page")
			}
		})
	}
}

func TestLoginStoreFailure(t *testing.T) {
	accounts := newAccounts()
	accounts.failWith = errors.New("connection refused")
	router := newTestRouter(t, accounts)

	rec := postLogin(router, url.Values{"username": {"admin"}, "password": {"secret"}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatal("internal error leaked to the page")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	accounts := newAccounts()
	router := newTestRouter(t, accounts)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "token-u-admin"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != auth.LoginPath {
		t.Fatalf("expected redirect to login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if len(accounts.ended) != 1 || accounts.ended[0] != "u-admin" {
		t.Fatalf("expected the admin session to end, got %v", accounts.ended)
	}
	if c := cookieNamed(rec, middleware.SessionCookie); c == nil || c.MaxAge >= 0 {
		t.Fatal("expected the session cookie to be cleared")
	}
}

func TestSetActive(t *testing.T) {
	accounts := newAccounts()
	router := newTestRouter(t, accounts)

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "token-u-admin"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := post("/admin/accounts/u-emp/deactivate"); rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if accounts.accounts["employee"].Active {
		t.Fatal("expected employee account to be inactive")
	}

	post("/admin/accounts/u-admin/deactivate")
	if !accounts.accounts["admin"].Active {
		t.Fatal("admin must not be able to deactivate themselves")
	}

	if rec := post("/admin/accounts/missing/activate"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/hr/employees", want: "/hr/employees"},
		{in: "/hr/employees?status=aktif", want: "/hr/employees?status=aktif"},
		{in: "https://evil.example.com", want: ""},
		{in: "//evil.example.com", want: ""},
		{in: "/\\evil.example.com", want: ""},
		{in: "/auth/login?next=/x", want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			if got := SafeNext(tc.in); got != tc.want {
				t.Fatalf("SafeNext(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
