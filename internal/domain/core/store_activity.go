package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func scanActivity(row pgx.Row) (ActivityLog, error) {
	var a ActivityLog
	if err := row.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Description, &a.Latitude, &a.Longitude, &a.Photo, &a.CreatedAt); err != nil {
		return ActivityLog{}, mapError(err)
	}
	return a, nil
}

func (s *Store) CreateActivity(ctx context.Context, in ActivityInput) (ActivityLog, error) {
	return scanActivity(s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO activity_logs (employee_id, description, latitude, longitude, photo)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id, employee_id, description, latitude, longitude, photo, created_at
    )
    SELECT i.id::text, i.employee_id::text, e.name, i.description, i.latitude, i.longitude, i.photo, i.created_at
    FROM inserted i
    JOIN employees e ON e.id = i.employee_id
  `, in.EmployeeID, in.Description, in.Latitude, in.Longitude, in.Photo))
}

func (s *Store) ListActivities(ctx context.Context, filter ActivityFilter) ([]ActivityLog, error) {
	query := `
    SELECT l.id::text, l.employee_id::text, e.name, l.description, l.latitude, l.longitude, l.photo, l.created_at
    FROM activity_logs l
    JOIN employees e ON e.id = l.employee_id
    WHERE 1=1`
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND l.employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND l.created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND l.created_at <= $%d", len(args))
	}
	query += " ORDER BY l.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []ActivityLog
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
