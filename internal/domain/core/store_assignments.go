package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/platform/querier"
)

const assignmentSelect = `
    SELECT a.id::text, a.employee_id::text, e.name, e.position, a.client_id::text, c.name,
           a.location, a.shift, a.start_date, a.end_date, a.status
    FROM assignments a
    JOIN employees e ON e.id = a.employee_id
    JOIN clients c ON c.id = a.client_id`

func scanAssignment(row pgx.Row) (Assignment, error) {
	var a Assignment
	if err := row.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Position, &a.ClientID, &a.ClientName,
		&a.Location, &a.Shift, &a.StartDate, &a.EndDate, &a.Status); err != nil {
		return Assignment{}, mapError(err)
	}
	return a, nil
}

// insertAssignment adds an active assignment. The partial unique index turns
// a second active row for the same employee into ErrActiveAssignmentExists.
func insertAssignment(ctx context.Context, q querier.Querier, employeeID string, in AssignmentInput) (string, error) {
	var id string
	if err := q.QueryRow(ctx, `
    INSERT INTO assignments (employee_id, client_id, location, shift, start_date, status)
    VALUES ($1,$2,$3,$4,$5,'aktif')
    RETURNING id::text
  `, employeeID, in.ClientID, in.Location, in.Shift, in.StartDate).Scan(&id); err != nil {
		return "", mapError(err)
	}
	return id, nil
}

func endActiveAssignment(ctx context.Context, q querier.Querier, employeeID string, endDate time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `
    UPDATE assignments
    SET status = 'selesai', end_date = GREATEST(start_date, $2)
    WHERE employee_id = $1 AND status = 'aktif'
  `, employeeID, endDate)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

// AddAssignment inserts without touching the current one.
func (s *Store) AddAssignment(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error) {
	id, err := insertAssignment(ctx, s.DB, employeeID, in)
	if err != nil {
		return Assignment{}, err
	}
	return s.GetAssignment(ctx, id)
}

// Reassign closes the current active assignment and opens the new one atomically.
func (s *Store) Reassign(ctx context.Context, employeeID string, in AssignmentInput) (Assignment, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Assignment{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT 1 FROM employees WHERE id = $1 FOR UPDATE", employeeID); err != nil {
		return Assignment{}, mapError(err)
	}
	if _, err := endActiveAssignment(ctx, tx, employeeID, in.StartDate); err != nil {
		return Assignment{}, err
	}
	id, err := insertAssignment(ctx, tx, employeeID, in)
	if err != nil {
		return Assignment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Assignment{}, err
	}
	return s.GetAssignment(ctx, id)
}

func (s *Store) EndAssignment(ctx context.Context, employeeID string, endDate time.Time) (bool, error) {
	n, err := endActiveAssignment(ctx, s.DB, employeeID, endDate)
	return n > 0, err
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	return scanAssignment(s.DB.QueryRow(ctx, assignmentSelect+" WHERE a.id = $1", assignmentID))
}

func (s *Store) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	query := assignmentSelect + " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND a.client_id = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND a.status = 'aktif'"
	}
	query += " ORDER BY a.start_date DESC, e.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
