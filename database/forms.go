package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mbolis/formcraft/model"
	"github.com/mbolis/formcraft/slug"
)

var ErrInvalidSchema = errors.New("invalid form schema")

const formColumns = `id, user_id, title, description, fields, is_published, view_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner) (f model.Form, err error) {
	var fieldsJson string
	err = row.Scan(
		&f.ID, &f.UserID, &f.Title, &f.Description, &fieldsJson,
		&f.IsPublished, &f.ViewCount, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return
	}
	err = json.Unmarshal([]byte(fieldsJson), &f.Fields)
	if err != nil {
		err = fmt.Errorf("form %s: decode fields: %w", f.ID, err)
	}
	return
}

func encodeFields(fields []model.Field) (string, error) {
	if err := model.ValidateFields(fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if fields == nil {
		fields = []model.Field{}
	}
	b, err := json.Marshal(fields)
	return string(b), err
}

// CreateForm stores a new, published form owned by userID.
func (s *Store) CreateForm(ctx context.Context, userID string, schema model.Schema) (model.Form, error) {
	fieldsJson, err := encodeFields(schema.Fields)
	if err != nil {
		return model.Form{}, err
	}
	id, err := newID()
	if err != nil {
		return model.Form{}, err
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (id, user_id, title, description, fields, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		id, userID, schema.Title, schema.Description, fieldsJson, now, now,
	)
	if err != nil {
		return model.Form{}, fmt.Errorf("insert form: %w", err)
	}
	return s.GetForm(ctx, id)
}

func (s *Store) GetForm(ctx context.Context, id string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM form WHERE id = ?`, id)
	f, err := scanForm(row)
	return f, notFound(err)
}

func (s *Store) GetPublishedForm(ctx context.Context, id string) (model.Form, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM form WHERE id = ? AND is_published`, id)
	f, err := scanForm(row)
	return f, notFound(err)
}

// Resolve finds a form by full id or by a slug embedding it. Whether the
// caller may see the form is left to the caller.
func (s *Store) Resolve(ctx context.Context, ref string) (model.Form, error) {
	id, ok := refID(ref)
	if !ok {
		return model.Form{}, ErrNotFound
	}
	return s.GetForm(ctx, id)
}

// ResolvePublished is Resolve for anonymous callers: unpublished forms are
// not found.
func (s *Store) ResolvePublished(ctx context.Context, ref string) (model.Form, error) {
	id, ok := refID(ref)
	if !ok {
		return model.Form{}, ErrNotFound
	}
	return s.GetPublishedForm(ctx, id)
}

func refID(ref string) (string, bool) {
	if slug.IsUUID(ref) {
		return ref, true
	}
	return slug.Decode(ref)
}

// ListFormsByOwner returns the user's forms, newest first.
func (s *Store) ListFormsByOwner(ctx context.Context, userID string) ([]model.Form, error) {
	return s.listForms(ctx, `
		SELECT `+formColumns+` FROM form
		WHERE user_id = ?
		ORDER BY created_at DESC`,
		userID,
	)
}

func (s *Store) listForms(ctx context.Context, query string, args ...any) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// FormUpdate holds the attributes to change; nil members are left as they are.
type FormUpdate struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Fields      *[]model.Field `json:"fields"`
	IsPublished *bool          `json:"is_published"`
}

func (s *Store) UpdateForm(ctx context.Context, id string, u FormUpdate) (model.Form, error) {
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return f, err
	}

	if u.Title != nil {
		f.Title = *u.Title
	}
	if u.Description != nil {
		f.Description = *u.Description
	}
	if u.Fields != nil {
		f.Fields = *u.Fields
	}
	if u.IsPublished != nil {
		f.IsPublished = *u.IsPublished
	}

	fieldsJson, err := encodeFields(f.Fields)
	if err != nil {
		return f, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET
			title = ?,
			description = ?,
			fields = ?,
			is_published = ?,
			updated_at = ?
		WHERE id = ?`,
		f.Title, f.Description, fieldsJson, f.IsPublished, s.now(), id,
	)
	if err != nil {
		return f, fmt.Errorf("update form: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n < 1 {
		return f, ErrNotFound
	}
	return s.GetForm(ctx, id)
}

func (s *Store) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews counts one public view of the form.
func (s *Store) IncrementViews(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE form SET view_count = view_count + 1 WHERE id = ?`, id)
	return err
}
