package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

const feedbackColumns = `id, employee_id, manager_id, strengths, improvements, sentiment, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(s scanner) (*models.Feedback, error) {
	f := &models.Feedback{}
	err := s.Scan(&f.ID, &f.EmployeeID, &f.ManagerID, &f.Strengths, &f.Improvements,
		&f.Sentiment, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (id, employee_id, manager_id, strengths, improvements, sentiment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		fb.ID, fb.EmployeeID, fb.ManagerID, fb.Strengths, fb.Improvements, fb.Sentiment).
		Scan(&fb.CreatedAt, &fb.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fb, nil
}

// Update rewrites the editable fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	query :=
		`UPDATE feedback
		 SET strengths = $2, improvements = $3, sentiment = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, fb.ID, fb.Strengths, fb.Improvements, fb.Sentiment).
		Scan(&fb.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fb, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	fb, err := scanFeedback(r.db.QueryRowContext(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fb, nil
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error) {
	return r.list(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
}

func (r *PostgresRepository) ListByManager(ctx context.Context, managerID string) ([]*models.Feedback, error) {
	return r.list(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE manager_id = $1 ORDER BY created_at DESC`, managerID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
