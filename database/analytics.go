package database

import (
	"context"
	"fmt"

	"github.com/mbolis/formcraft/model"
)

func (s *Store) GetUserAnalytics(ctx context.Context, userID string) (a model.UserAnalytics, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT user_id, total_forms, total_responses, total_views, last_activity, created_at, updated_at
		FROM user_analytics
		WHERE user_id = ?`,
		userID,
	).Scan(&a.UserID, &a.TotalForms, &a.TotalResponses, &a.TotalViews, &a.LastActivity, &a.CreatedAt, &a.UpdatedAt)
	return a, notFound(err)
}

// RefreshUserAnalytics recounts the user's forms, responses and views and
// stores the totals. Counters are never maintained incrementally.
func (s *Store) RefreshUserAnalytics(ctx context.Context, userID string) (model.UserAnalytics, error) {
	var forms, views int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(view_count), 0)
		FROM form
		WHERE user_id = ?`,
		userID,
	).Scan(&forms, &views)
	if err != nil {
		return model.UserAnalytics{}, fmt.Errorf("count forms: %w", err)
	}

	var responses int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM form_response r
		INNER JOIN form f ON (f.id = r.form_id)
		WHERE f.user_id = ?`,
		userID,
	).Scan(&responses)
	if err != nil {
		return model.UserAnalytics{}, fmt.Errorf("count responses: %w", err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_analytics (user_id, total_forms, total_responses, total_views, last_activity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_forms = excluded.total_forms,
			total_responses = excluded.total_responses,
			total_views = excluded.total_views,
			last_activity = excluded.last_activity,
			updated_at = excluded.updated_at`,
		userID, forms, responses, views, now, now, now,
	)
	if err != nil {
		return model.UserAnalytics{}, fmt.Errorf("upsert analytics: %w", err)
	}
	return s.GetUserAnalytics(ctx, userID)
}
