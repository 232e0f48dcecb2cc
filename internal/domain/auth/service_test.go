package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memorySession struct {
	userID  string
	expires time.Time
	revoked bool
}

type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]Account
	sessions map[string]*memorySession
}

func newMemoryStore(accounts ...Account) *memoryStore {
	store := &memoryStore{accounts: map[string]Account{}, sessions: map[string]*memorySession{}}
	for _, acc := range accounts {
		store.accounts[acc.ID] = acc
	}
	return store
}

func (m *memoryStore) FindAccountByUsername(_ context.Context, username string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Username == username {
			return acc, nil
		}
	}
	return Account{}, ErrNotFound
}

func (m *memoryStore) GetAccount(_ context.Context, userID string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (m *memoryStore) ListAccounts(context.Context) ([]Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (m *memoryStore) SetActive(_ context.Context, userID string, active bool) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	acc.Active = active
	m.accounts[userID] = acc
	return acc, nil
}

func (m *memoryStore) UpdateLastLogin(context.Context, string) error { return nil }

func (m *memoryStore) CreateSession(_ context.Context, userID, tokenHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[tokenHash] = &memorySession{userID: userID, expires: expires}
	return nil
}

func (m *memoryStore) SessionAccount(_ context.Context, userID, tokenHash string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[tokenHash]
	if !ok || sess.userID != userID || sess.revoked || time.Now().After(sess.expires) {
		return Account{}, ErrSessionInvalid
	}
	return m.accounts[userID], nil
}

func (m *memoryStore) RevokeSession(_ context.Context, userID, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[tokenHash]; ok && sess.userID == userID {
		sess.revoked = true
	}
	return nil
}

func (m *memoryStore) RevokeAllSessions(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, sess := range m.sessions {
		if sess.userID == userID && !sess.revoked {
			sess.revoked = true
			n++
		}
	}
	return n, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func TestAuthenticate(t *testing.T) {
	hash := mustHash(t, "employee123")
	store := newMemoryStore(
		Account{ID: "u1", Username: "employee", PasswordHash: hash, Role: RoleEmployee, Active: true},
		Account{ID: "u2", Username: "former", PasswordHash: hash, Role: RoleEmployee, Active: false},
	)
	svc := NewService(store, "secret", time.Hour)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "employee", password: "employee123"},
		{name: "unknown user", username: "nobody", password: "employee123", wantErr: ErrUnknownUser},
		{name: "blank user", username: "  ", password: "x", wantErr: ErrUnknownUser},
		{name: "wrong password", username: "employee", password: "nope", wantErr: ErrWrongPassword},
		{name: "inactive", username: "former", password: "employee123", wantErr: ErrInactive},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			acc, err := svc.Authenticate(context.Background(), tc.username, tc.password)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acc.ID != "u1" {
				t.Fatalf("unexpected account %+v", acc)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := newMemoryStore(Account{ID: "u1", Username: "hr", Role: RoleHR, Active: true})
	svc := NewService(store, "secret", time.Hour)
	ctx := context.Background()

	token, expires, err := svc.StartSession(ctx, store.accounts["u1"])
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected future expiry, got %v", expires)
	}

	identity, err := svc.ResolveSession(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != "u1" || identity.Role != RoleHR || identity.SessionID == "" {
		t.Fatalf("unexpected identity %+v", identity)
	}

	if err := svc.EndSession(ctx, identity); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestResolveSessionRejectsGarbage(t *testing.T) {
	svc := NewService(newMemoryStore(), "secret", time.Hour)
	if _, err := svc.ResolveSession(context.Background(), "not-a-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestDeactivationRevokesSessions(t *testing.T) {
	store := newMemoryStore(Account{ID: "u1", Username: "client", Role: RoleClient, Active: true})
	svc := NewService(store, "secret", time.Hour)
	ctx := context.Background()

	first, _, err := svc.StartSession(ctx, store.accounts["u1"])
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	second, _, err := svc.StartSession(ctx, store.accounts["u1"])
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	acc, err := svc.SetActive(ctx, "u1", false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if acc.Active {
		t.Fatal("expected inactive account")
	}

	for _, token := range []string{first, second} {
		if _, err := svc.ResolveSession(ctx, token); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("expected session revoked after deactivation, got %v", err)
		}
	}

	if _, err := svc.SetActive(ctx, "u1", true); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, first); !errors.Is(err, ErrSessionInvalid) {
		t.Fatal("reactivation must not revive revoked sessions")
	}
}
