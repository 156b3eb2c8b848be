package comments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO feedback_comments (id, feedback_id, author_id, comment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, c.ID, c.FeedbackID, c.AuthorID, c.Comment).Scan(&c.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ListForFeedback returns comments oldest first.
func (r *PostgresRepository) ListForFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	query :=
		`SELECT id, feedback_id, author_id, comment, created_at FROM feedback_comments
		 WHERE feedback_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.FeedbackID, &c.AuthorID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
