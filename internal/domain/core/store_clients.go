package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const clientSelect = `
    SELECT c.id::text,
           COALESCE(c.user_id::text, ''),
           COALESCE(u.username, ''),
           c.name, c.address, c.contact_person, c.phone,
           (SELECT COUNT(1) FROM assignments a WHERE a.client_id = c.id AND a.status = 'aktif'),
           c.created_at
    FROM clients c
    LEFT JOIN users u ON u.id = c.user_id`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	if err := row.Scan(&c.ID, &c.UserID, &c.Username, &c.Name, &c.Address, &c.ContactPerson, &c.Phone, &c.ActiveEmployees, &c.CreatedAt); err != nil {
		return Client{}, mapError(err)
	}
	return c, nil
}

func (s *Store) GetClient(ctx context.Context, clientID string) (Client, error) {
	return scanClient(s.DB.QueryRow(ctx, clientSelect+" WHERE c.id = $1", clientID))
}

func (s *Store) GetClientByUserID(ctx context.Context, userID string) (Client, error) {
	return scanClient(s.DB.QueryRow(ctx, clientSelect+" WHERE c.user_id = $1", userID))
}

func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, clientSelect+" ORDER BY c.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateClient(ctx context.Context, in ClientInput, account *NewAccount) (Client, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Client{}, err
	}
	defer tx.Rollback(ctx)

	var userID *string
	if account != nil {
		id, err := insertAccount(ctx, tx, *account)
		if err != nil {
			return Client{}, err
		}
		userID = &id
	}

	var clientID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO clients (user_id, name, address, contact_person, phone)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id::text
  `, userID, in.Name, in.Address, in.ContactPerson, in.Phone).Scan(&clientID); err != nil {
		return Client{}, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Client{}, err
	}
	return s.GetClient(ctx, clientID)
}

// DeleteClient removes the client with its contracts and assignments, then its account.
func (s *Store) DeleteClient(ctx context.Context, clientID string) (Client, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return Client{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Client{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM clients WHERE id = $1", clientID); err != nil {
		return Client{}, mapError(err)
	}
	if c.UserID != "" {
		if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", c.UserID); err != nil {
			return Client{}, mapError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Client{}, err
	}
	return c, nil
}

const contractColumns = "id::text, client_id::text, start_date, end_date, value::text, status, created_at"

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	var value string
	if err := row.Scan(&c.ID, &c.ClientID, &c.StartDate, &c.EndDate, &value, &c.Status, &c.CreatedAt); err != nil {
		return Contract{}, mapError(err)
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return Contract{}, err
	}
	c.Value = parsed
	return c, nil
}

func (s *Store) CreateContract(ctx context.Context, c Contract) (Contract, error) {
	return scanContract(s.DB.QueryRow(ctx, `
    INSERT INTO contracts (client_id, start_date, end_date, value, status)
    VALUES ($1,$2,$3,$4::text::numeric,$5)
    RETURNING `+contractColumns, c.ClientID, c.StartDate, c.EndDate, c.Value.String(), c.Status))
}

func (s *Store) ListContracts(ctx context.Context, clientID string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+contractColumns+" FROM contracts WHERE client_id = $1 ORDER BY start_date DESC", clientID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) EndContract(ctx context.Context, clientID, contractID string, endDate time.Time) (Contract, error) {
	return scanContract(s.DB.QueryRow(ctx, `
    UPDATE contracts
    SET status = 'selesai', end_date = GREATEST(start_date, LEAST(end_date, $3))
    WHERE id = $1 AND client_id = $2
    RETURNING `+contractColumns, contractID, clientID, endDate))
}
