package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbolis/formcraft/model"
)

const fileColumns = `id, form_id, response_id, field_id, file_name, file_type, file_size, file_url, created_at`

func scanFile(row scanner) (f model.FormFile, err error) {
	var responseID sql.NullString
	err = row.Scan(&f.ID, &f.FormID, &responseID, &f.FieldID, &f.FileName, &f.FileType, &f.FileSize, &f.FileURL, &f.CreatedAt)
	f.ResponseID = responseID.String
	return
}

// InsertFile stores file metadata; ID and CreatedAt are assigned when empty.
func (s *Store) InsertFile(ctx context.Context, f *model.FormFile) error {
	if f.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		f.ID = id
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO form_file (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.FormID, sql.NullString{String: f.ResponseID, Valid: f.ResponseID != ""},
		f.FieldID, f.FileName, f.FileType, f.FileSize, f.FileURL, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (s *Store) GetFile(ctx context.Context, id string) (model.FormFile, error) {
	f, err := scanFile(s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM form_file WHERE id = ?`, id))
	return f, notFound(err)
}

// ListFiles returns a form's file metadata, newest first.
func (s *Store) ListFiles(ctx context.Context, formID string) ([]model.FormFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+` FROM form_file
		WHERE form_id = ?
		ORDER BY created_at DESC`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []model.FormFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *Store) DeleteFile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form_file WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeleteFiles removes the metadata of every file attached to the form.
func (s *Store) DeleteFiles(ctx context.Context, formID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM form_file WHERE form_id = ?`, formID)
	if err != nil {
		return fmt.Errorf("delete files: %w", err)
	}
	return nil
}
