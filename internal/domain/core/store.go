package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "hrportal/internal/platform/crypto"
	"hrportal/internal/platform/querier"
)

type Store struct {
	DB     *pgxpool.Pool
	Sealer *cryptoutil.Sealer
}

func NewStore(db *pgxpool.Pool, sealer *cryptoutil.Sealer) *Store {
	return &Store{DB: db, Sealer: sealer}
}

const employeeSelect = `
    SELECT e.id::text,
           COALESCE(e.user_id::text, ''),
           COALESCE(u.username, ''),
           e.name, e.position, e.job_type,
           e.join_date, e.end_date, e.status, e.photo,
           COALESCE(a.client_id::text, ''),
           COALESCE(c.name, ''),
           e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN users u ON u.id = e.user_id
    LEFT JOIN assignments a ON a.employee_id = e.id AND a.status = 'aktif'
    LEFT JOIN clients c ON c.id = a.client_id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.Username,
		&emp.Name, &emp.Position, &emp.JobType,
		&emp.JoinDate, &emp.EndDate, &emp.Status, &emp.Photo,
		&emp.ClientID, &emp.ClientName,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, mapError(err)
	}
	return emp, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", employeeID))
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.user_id = $1", userID))
}

// ListEmployees returns every employee, or only those with status when it is set.
func (s *Store) ListEmployees(ctx context.Context, status string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeSelect+`
    WHERE ($1 = '' OR e.status = $1)
    ORDER BY e.name
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// CreateEmployee writes the optional account, the employee and the optional
// first assignment in one transaction.
func (s *Store) CreateEmployee(ctx context.Context, in EmployeeInput, account *NewAccount, assignment *AssignmentInput) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer tx.Rollback(ctx)

	var userID *string
	if account != nil {
		id, err := insertAccount(ctx, tx, *account)
		if err != nil {
			return Employee{}, err
		}
		userID = &id
	}

	var employeeID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO employees (user_id, name, position, job_type, join_date, end_date, status, photo)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id::text
  `, userID, in.Name, in.Position, in.JobType, in.JoinDate, in.EndDate, in.Status, in.Photo).Scan(&employeeID); err != nil {
		return Employee{}, mapError(err)
	}

	if assignment != nil {
		if _, err := insertAssignment(ctx, tx, employeeID, *assignment); err != nil {
			return Employee{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return s.GetEmployee(ctx, employeeID)
}

// UpdateEmployee keeps the stored photo when in.Photo is empty.
func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, in EmployeeInput) (Employee, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, position = $3, job_type = $4, join_date = $5, end_date = $6, status = $7,
        photo = COALESCE(NULLIF($8, ''), photo), updated_at = now()
    WHERE id = $1
  `, employeeID, in.Name, in.Position, in.JobType, in.JoinDate, in.EndDate, in.Status, in.Photo)
	if err != nil {
		return Employee{}, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}
	return s.GetEmployee(ctx, employeeID)
}

// DeleteEmployee removes the employee, everything it owns, and its account.
func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) (Employee, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID); err != nil {
		return Employee{}, mapError(err)
	}
	if emp.UserID != "" {
		if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", emp.UserID); err != nil {
			return Employee{}, mapError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var out Counts
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM employees),
      (SELECT COUNT(1) FROM employees WHERE status = 'aktif'),
      (SELECT COUNT(1) FROM clients),
      (SELECT COUNT(1) FROM assignments WHERE status = 'aktif'),
      (SELECT COUNT(1) FROM contracts WHERE status = 'aktif'),
      (SELECT COUNT(1) FROM users),
      (SELECT COUNT(1) FROM users WHERE NOT active)
  `).Scan(&out.Employees, &out.ActiveEmployees, &out.Clients, &out.ActiveAssignments, &out.ActiveContracts, &out.Accounts, &out.InactiveAccounts)
	return out, err
}

func insertAccount(ctx context.Context, q querier.Querier, account NewAccount) (string, error) {
	var id string
	if err := q.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1,$2,$3)
    RETURNING id::text
  `, account.Username, account.PasswordHash, account.Role).Scan(&id); err != nil {
		return "", mapError(err)
	}
	return id, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "users_username_key":
				return ErrUsernameTaken
			case "assignments_one_active_per_employee":
				return ErrActiveAssignmentExists
			}
		case "23503":
			if pgErr.ConstraintName == "assignments_client_id_fkey" || pgErr.ConstraintName == "contracts_client_id_fkey" {
				return ErrUnknownClient
			}
			return ErrNotFound
		case "22P02":
			return ErrNotFound
		case "23514":
			return invalid(pgErr.ConstraintName, "violates a table constraint")
		}
	}
	return err
}
