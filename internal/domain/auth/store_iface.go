package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindAccountByUsername(ctx context.Context, username string) (Account, error)
	GetAccount(ctx context.Context, userID string) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	SetActive(ctx context.Context, userID string, active bool) (Account, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error
	SessionAccount(ctx context.Context, userID, tokenHash string) (Account, error)
	RevokeSession(ctx context.Context, userID, tokenHash string) error
	RevokeAllSessions(ctx context.Context, userID string) (int64, error)
}

var _ StoreAPI = (*Store)(nil)
