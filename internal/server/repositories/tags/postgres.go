package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Tag, error) {
	return r.list(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
}

func (r *PostgresRepository) ListForFeedback(ctx context.Context, feedbackID string) ([]models.Tag, error) {
	query :=
		`SELECT t.id, t.name, t.created_at FROM tags t
		 JOIN feedback_tags ft ON ft.tag_id = t.id
		 WHERE ft.feedback_id = $1
		 ORDER BY t.name
		 `
	return r.list(ctx, query, feedbackID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Create inserts tag. Names are unique regardless of case.
func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query :=
		`INSERT INTO tags (id, name)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, tag.ID, tag.Name).Scan(&tag.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// SetForFeedback replaces the tag set of a feedback item. Callers run it
// inside a transaction.
func (r *PostgresRepository) SetForFeedback(ctx context.Context, feedbackID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM feedback_tags WHERE feedback_id = $1`, feedbackID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, id := range tagIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO feedback_tags (feedback_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			feedbackID, id)
		if err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return common.ErrNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
