package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mbolis/formcraft/model"
)

func scanResponse(row scanner, extra ...any) (r model.FormResponse, err error) {
	var data string
	dest := append([]any{&r.ID, &r.FormID, &data, &r.CreatedAt}, extra...)
	if err = row.Scan(dest...); err != nil {
		return
	}
	if err = json.Unmarshal([]byte(data), &r.ResponseData); err != nil {
		err = fmt.Errorf("response %s: decode data: %w", r.ID, err)
	}
	return
}

// InsertResponse stores one submission. Responses are never updated.
func (s *Store) InsertResponse(ctx context.Context, formID string, data map[string]any) (model.FormResponse, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return model.FormResponse{}, fmt.Errorf("encode response: %w", err)
	}
	id, err := newID()
	if err != nil {
		return model.FormResponse{}, err
	}

	r := model.FormResponse{ID: id, FormID: formID, ResponseData: data, CreatedAt: s.now()}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_response (id, form_id, response_data, created_at)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.FormID, string(b), r.CreatedAt,
	)
	if err != nil {
		return model.FormResponse{}, fmt.Errorf("insert response: %w", err)
	}
	return r, nil
}

func (s *Store) GetResponse(ctx context.Context, id string) (model.FormResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, response_data, created_at
		FROM form_response
		WHERE id = ?`,
		id,
	)
	r, err := scanResponse(row)
	return r, notFound(err)
}

// ListResponses returns a form's responses, newest first.
func (s *Store) ListResponses(ctx context.Context, formID string) ([]model.FormResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, response_data, created_at
		FROM form_response
		WHERE form_id = ?
		ORDER BY created_at DESC`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []model.FormResponse{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *Store) CountResponses(ctx context.Context, formID string) (n int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM form_response WHERE form_id = ?`, formID).Scan(&n)
	return
}

// OwnedResponse is a response listed across all of a user's forms.
type OwnedResponse struct {
	model.FormResponse
	FormTitle string `json:"form_title"`
}

func (s *Store) ListResponsesByOwner(ctx context.Context, userID string) ([]OwnedResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.form_id, r.response_data, r.created_at, f.title
		FROM form_response r
		INNER JOIN form f ON (f.id = r.form_id)
		WHERE f.user_id = ?
		ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []OwnedResponse{}
	for rows.Next() {
		var o OwnedResponse
		o.FormResponse, err = scanResponse(rows, &o.FormTitle)
		if err != nil {
			return nil, err
		}
		responses = append(responses, o)
	}
	return responses, rows.Err()
}

func (s *Store) DeleteResponses(ctx context.Context, formID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM form_response WHERE form_id = ?`, formID)
	if err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return nil
}
