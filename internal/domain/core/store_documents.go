package core

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const documentColumns = "id::text, employee_id::text, document_type, file_path, uploaded_at"

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.EmployeeID, &d.DocumentType, &d.FilePath, &d.UploadedAt); err != nil {
		return Document{}, mapError(err)
	}
	return d, nil
}

func (s *Store) AddDocument(ctx context.Context, employeeID, documentType, filePath string) (Document, error) {
	return scanDocument(s.DB.QueryRow(ctx, `
    INSERT INTO employee_documents (employee_id, document_type, file_path)
    VALUES ($1,$2,$3)
    RETURNING `+documentColumns, employeeID, documentType, filePath))
}

func (s *Store) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+documentColumns+" FROM employee_documents WHERE employee_id = $1 ORDER BY uploaded_at DESC", employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDocument(ctx context.Context, employeeID, documentID string) (Document, error) {
	return scanDocument(s.DB.QueryRow(ctx, `
    DELETE FROM employee_documents
    WHERE id = $1 AND employee_id = $2
    RETURNING `+documentColumns, documentID, employeeID))
}
