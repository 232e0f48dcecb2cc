package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const returningColumns = "id::text, employee_id::text, ''::text, date, status, check_in, check_out, overtime_hours::text"

const selectColumns = `
    SELECT a.id::text, a.employee_id::text, e.name, a.date, a.status, a.check_in, a.check_out, a.overtime_hours::text
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var status, overtime string
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &status, &rec.CheckIn, &rec.CheckOut, &overtime)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	rec.OvertimeHours, err = decimal.NewFromString(overtime)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ErrUnknownEmployee
		case "22P02":
			return ErrUnknownEmployee
		}
	}
	return err
}

// OpenDay sets check_in only while it is still NULL. A conflicting row whose
// check_in is already set yields no RETURNING row, so the caller learns the
// write lost without a separate read-then-write window.
func (s *Store) OpenDay(ctx context.Context, employeeID string, day, at time.Time) (Record, bool, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, status, check_in)
    VALUES ($1, $2, 'hadir', $3)
    ON CONFLICT (employee_id, date) DO UPDATE
    SET check_in = EXCLUDED.check_in, updated_at = now()
    WHERE attendance.check_in IS NULL
    RETURNING `+returningColumns, employeeID, day, at))
	return s.settle(ctx, employeeID, day, rec, err)
}

func (s *Store) CloseDay(ctx context.Context, employeeID string, day, at time.Time) (Record, bool, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, status, check_out)
    VALUES ($1, $2, 'hadir', $3)
    ON CONFLICT (employee_id, date) DO UPDATE
    SET check_out = EXCLUDED.check_out, updated_at = now()
    WHERE attendance.check_out IS NULL
    RETURNING `+returningColumns, employeeID, day, at))
	return s.settle(ctx, employeeID, day, rec, err)
}

func (s *Store) settle(ctx context.Context, employeeID string, day time.Time, rec Record, err error) (Record, bool, error) {
	if errors.Is(err, ErrNotFound) {
		current, getErr := s.Get(ctx, employeeID, day)
		return current, false, getErr
	}
	if err != nil {
		return Record{}, false, mapError(err)
	}
	return rec, true, nil
}

func (s *Store) Get(ctx context.Context, employeeID string, day time.Time) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, selectColumns+`
    WHERE a.employee_id = $1 AND a.date = $2
  `, employeeID, day))
	return rec, mapError(err)
}

func (s *Store) SetStatus(ctx context.Context, employeeID string, day time.Time, status Status, overtime decimal.Decimal) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, status, overtime_hours)
    VALUES ($1, $2, $3, $4::text::numeric)
    ON CONFLICT (employee_id, date) DO UPDATE
    SET status = EXCLUDED.status, overtime_hours = EXCLUDED.overtime_hours, updated_at = now()
    RETURNING `+returningColumns, employeeID, day, string(status), overtime.String()))
	return rec, mapError(err)
}

func (s *Store) ListDay(ctx context.Context, day time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE a.date = $1
    ORDER BY e.name
  `, day)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) ListClientDay(ctx context.Context, clientID string, day time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    JOIN assignments asg ON asg.employee_id = a.employee_id AND asg.status = 'aktif'
    WHERE asg.client_id = $1 AND a.date = $2
    ORDER BY e.name
  `, clientID, day)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) ListEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
    ORDER BY a.date DESC
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) ListRange(ctx context.Context, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE a.date BETWEEN $1 AND $2
    ORDER BY a.date, e.name
  `, from, to)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// CountRosterEmployees counts everyone expected to attend.
func (s *Store) CountRosterEmployees(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE status <> 'nonaktif'").Scan(&total)
	return total, err
}
