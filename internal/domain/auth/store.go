package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const accountColumns = "id::text, username, password_hash, role, active, last_login, created_at"

func scanAccount(row pgx.Row) (Account, error) {
	var out Account
	var role string
	err := row.Scan(&out.ID, &out.Username, &out.PasswordHash, &role, &out.Active, &out.LastLogin, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	out.Role = Role(role)
	return out, nil
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (Account, error) {
	return scanAccount(s.DB.QueryRow(ctx, "SELECT "+accountColumns+" FROM users WHERE username = $1", username))
}

func (s *Store) GetAccount(ctx context.Context, userID string) (Account, error) {
	return scanAccount(s.DB.QueryRow(ctx, "SELECT "+accountColumns+" FROM users WHERE id = $1", userID))
}

func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+accountColumns+" FROM users ORDER BY role, username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (s *Store) SetActive(ctx context.Context, userID string, active bool) (Account, error) {
	return scanAccount(s.DB.QueryRow(ctx, "UPDATE users SET active = $1 WHERE id = $2 RETURNING "+accountColumns, active, userID))
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, tokenHash, expires)
	return err
}

// SessionAccount returns the account behind a live session, re-reading role and
// active flag so changes take effect on the next request.
func (s *Store) SessionAccount(ctx context.Context, userID, tokenHash string) (Account, error) {
	acc, err := scanAccount(s.DB.QueryRow(ctx, `
    SELECT u.id::text, u.username, u.password_hash, u.role, u.active, u.last_login, u.created_at
    FROM sessions s
    JOIN users u ON u.id = s.user_id
    WHERE s.user_id = $1 AND s.token_hash = $2 AND s.expires_at > now() AND s.revoked_at IS NULL
  `, userID, tokenHash))
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrSessionInvalid
	}
	return acc, err
}

func (s *Store) RevokeSession(ctx context.Context, userID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND token_hash = $2 AND revoked_at IS NULL", userID, tokenHash)
	return err
}

func (s *Store) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL", userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
