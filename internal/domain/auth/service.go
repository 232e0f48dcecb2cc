package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Authenticate checks credentials in the order the login page reports them:
// unknown username, wrong password, inactive account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Account{}, ErrUnknownUser
	}
	acc, err := s.store.FindAccountByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrUnknownUser
	}
	if err != nil {
		return Account{}, err
	}
	if err := CheckPassword(acc.PasswordHash, password); err != nil {
		return Account{}, ErrWrongPassword
	}
	if !acc.Active {
		return Account{}, ErrInactive
	}
	return acc, nil
}

// StartSession records a server-side session and returns the signed cookie value.
func (s *Service) StartSession(ctx context.Context, acc Account) (string, time.Time, error) {
	sessionID := uuid.NewString()
	expires := s.now().Add(s.ttl)
	if err := s.store.CreateSession(ctx, acc.ID, HashToken(sessionID), expires); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}
	token, err := GenerateToken(s.secret, Claims{
		UserID:    acc.ID,
		Username:  acc.Username,
		Role:      acc.Role,
		SessionID: sessionID,
	}, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, acc.ID); err != nil {
		slog.Warn("update last_login failed", "userId", acc.ID, "err", err)
	}
	return token, expires, nil
}

func (s *Service) ResolveSession(ctx context.Context, token string) (Identity, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return Identity{}, ErrSessionInvalid
	}
	acc, err := s.store.SessionAccount(ctx, claims.UserID, HashToken(claims.SessionID))
	if err != nil {
		return Identity{}, err
	}
	if !acc.Active {
		return Identity{}, ErrSessionInvalid
	}
	return acc.Identity(claims.SessionID), nil
}

func (s *Service) EndSession(ctx context.Context, identity Identity) error {
	if identity.SessionID == "" {
		return nil
	}
	return s.store.RevokeSession(ctx, identity.UserID, HashToken(identity.SessionID))
}

// SetActive toggles an account. Deactivation revokes every open session.
func (s *Service) SetActive(ctx context.Context, userID string, active bool) (Account, error) {
	acc, err := s.store.SetActive(ctx, userID, active)
	if err != nil {
		return Account{}, err
	}
	if !active {
		revoked, err := s.store.RevokeAllSessions(ctx, userID)
		if err != nil {
			return Account{}, fmt.Errorf("revoke sessions: %w", err)
		}
		slog.Info("account deactivated", "userId", userID, "sessionsRevoked", revoked)
	}
	return acc, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *Service) GetAccount(ctx context.Context, userID string) (Account, error) {
	return s.store.GetAccount(ctx, userID)
}
