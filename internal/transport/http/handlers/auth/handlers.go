package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

// Accounts is the part of auth.Service the login flow needs.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (auth.Account, error)
	StartSession(ctx context.Context, acc auth.Account) (string, time.Time, error)
	EndSession(ctx context.Context, identity auth.Identity) error
	SetActive(ctx context.Context, userID string, active bool) (auth.Account, error)
}

type Handler struct {
	Accounts     Accounts
	Audit        *audit.Service
	Render       *web.Renderer
	SecureCookie bool
	LoginLimit   func(http.Handler) http.Handler
}

func NewHandler(accounts Accounts, auditSvc *audit.Service, rd *web.Renderer, secureCookie bool, loginLimit func(http.Handler) http.Handler) *Handler {
	if loginLimit == nil {
		loginLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{Accounts: accounts, Audit: auditSvc, Render: rd, SecureCookie: secureCookie, LoginLimit: loginLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.handleLoginPage)
		r.With(h.LoginLimit).Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
	})
}

// RegisterAdminRoutes mounts account management under an admin-only router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/accounts/{userID}/activate", h.handleSetActive(true))
	r.Post("/accounts/{userID}/deactivate", h.handleSetActive(false))
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, auth.HomePath(identity.Role), http.StatusSeeOther)
}

type loginPage struct {
	Username string
	Next     string
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		http.Redirect(w, r, auth.HomePath(identity.Role), http.StatusSeeOther)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "login", "Log in", loginPage{
		Username: r.URL.Query().Get("username"),
		Next:     SafeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := shared.ParseForm(r)
	if err != nil {
		h.Render.Error(w, r, http.StatusBadRequest, "The login form could not be read.")
		return
	}
	username := form.String("username")
	password := form.String("password")
	next := SafeNext(form.String("next"))

	if username == "" || password == "" {
		web.Redirect(w, r, loginURL(username, next), web.Danger("Enter your username and password."))
		return
	}

	acc, err := h.Accounts.Authenticate(r.Context(), username, password)
	if err != nil {
		message, known := loginFailureMessage(err)
		if !known {
			h.Render.Fault(w, r, err)
			return
		}
		slog.Warn("login failed",
			"username", username,
			"reason", err.Error(),
			"ip", shared.ClientIP(r),
			"requestId", middleware.GetRequestID(r.Context()),
		)
		web.Redirect(w, r, loginURL(username, next), web.Danger(message))
		return
	}

	if acc.Role == auth.RoleClient && !h.Render.Feature(web.FeatureClient) {
		slog.Warn("client login while client portal is disabled",
			"username", username,
			"requestId", middleware.GetRequestID(r.Context()),
		)
		web.Redirect(w, r, loginURL(username, next), web.Danger(clientPortalDisabled))
		return
	}

	token, expires, err := h.Accounts.StartSession(r.Context(), acc)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, expires, h.SecureCookie)
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), acc.ID, "auth.login", "user", acc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit login failed", "err", err)
		}
	}

	target := auth.HomePath(acc.Role)
	if next != "" {
		target = next
	}
	web.Redirect(w, r, target, web.Success("Welcome, "+acc.Username+"."))
}

const clientPortalDisabled = "The client portal is not enabled. Please contact HR."

// loginFailureMessage maps an authentication error to what the user sees.
// known is false for infrastructure errors.
func loginFailureMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrUnknownUser):
		return "Username not found.", true
	case errors.Is(err, auth.ErrWrongPassword):
		return "Incorrect password.", true
	case errors.Is(err, auth.ErrInactive):
		return "Your account is inactive. Please contact HR.", true
	default:
		return "", false
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		if err := h.Accounts.EndSession(r.Context(), identity); err != nil {
			slog.Warn("end session failed", "err", err, "userId", identity.UserID)
		}
		h.Audit.Log(r.Context(), "auth.logout", "user", identity.UserID, nil, nil)
	}
	middleware.ClearSessionCookie(w, h.SecureCookie)
	web.Redirect(w, r, auth.LoginPath, web.Info("You have been logged out."))
}

func (h *Handler) handleSetActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if identity, ok := middleware.GetIdentity(r.Context()); ok && identity.UserID == userID && !active {
			web.Redirect(w, r, "/admin/dashboard", web.Warning("You cannot deactivate your own account."))
			return
		}

		acc, err := h.Accounts.SetActive(r.Context(), userID, active)
		if errors.Is(err, auth.ErrNotFound) {
			h.Render.NotFound(w, r)
			return
		}
		if err != nil {
			h.Render.Fault(w, r, err)
			return
		}

		action, verb := "account.deactivate", "deactivated"
		if active {
			action, verb = "account.activate", "activated"
		}
		h.Audit.Log(r.Context(), action, "user", acc.ID, map[string]any{"active": !active}, map[string]any{"active": active})
		web.Redirect(w, r, "/admin/dashboard", web.Success("Account "+acc.Username+" "+verb+"."))
	}
}

// SafeNext keeps only same-site relative paths so a login link cannot
// send the user to another host.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") {
		return ""
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if strings.HasPrefix(next, auth.LoginPath) {
		return ""
	}
	return next
}

func loginURL(username, next string) string {
	q := url.Values{}
	if username != "" {
		q.Set("username", username)
	}
	if next != "" {
		q.Set("next", next)
	}
	if len(q) == 0 {
		return auth.LoginPath
	}
	return auth.LoginPath + "?" + q.Encode()
}
