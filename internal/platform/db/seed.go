package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
)

type seedAccount struct {
	username string
	password string
	role     auth.Role
}

// Seed creates the bootstrap accounts whose passwords are configured. The
// employee and client accounts also get the registry rows they log in as.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	accounts := []seedAccount{
		{username: "admin", password: cfg.SeedAdminPassword, role: auth.RoleAdmin},
		{username: "hr", password: cfg.SeedHRPassword, role: auth.RoleHR},
		{username: "employee", password: cfg.SeedEmployeePassword, role: auth.RoleEmployee},
		{username: "client", password: cfg.SeedClientPassword, role: auth.RoleClient},
	}

	for _, account := range accounts {
		if strings.TrimSpace(account.password) == "" {
			continue
		}
		userID, created, err := ensureUser(ctx, pool, account)
		if err != nil {
			return err
		}
		if created {
			slog.Info("seeded account", "username", account.username, "role", account.role)
		}

		switch account.role {
		case auth.RoleEmployee:
			err = ensureEmployee(ctx, pool, userID, "Employee")
		case auth.RoleClient:
			err = ensureClient(ctx, pool, userID, "Client")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, account seedAccount) (string, bool, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM users WHERE username = $1", account.username).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}

	hash, err := auth.HashPassword(account.password)
	if err != nil {
		return "", false, err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1, $2, $3)
    ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
    RETURNING id::text
  `, account.username, hash, string(account.role)).Scan(&id)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, userID, name string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	_, err := pool.Exec(ctx, `
    INSERT INTO employees (user_id, name, join_date)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id) DO NOTHING
  `, userID, name, today)
	return err
}

func ensureClient(ctx context.Context, pool *pgxpool.Pool, userID, name string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO clients (user_id, name)
    VALUES ($1, $2)
    ON CONFLICT (user_id) DO NOTHING
  `, userID, name)
	return err
}
