package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

const requestColumns = `id, employee_id, manager_id, message, status, feedback_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.FeedbackRequest, error) {
	r := &models.FeedbackRequest{}
	err := s.Scan(&r.ID, &r.EmployeeID, &r.ManagerID, &r.Message, &r.Status, &r.FeedbackID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.FeedbackRequest) (*models.FeedbackRequest, error) {
	query :=
		`INSERT INTO feedback_requests (id, employee_id, manager_id, message, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, req.ID, req.EmployeeID, req.ManagerID, req.Message, req.Status).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FeedbackRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM feedback_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.FeedbackRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM feedback_requests WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
}

func (r *PostgresRepository) ListByManager(ctx context.Context, managerID string) ([]*models.FeedbackRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM feedback_requests WHERE manager_id = $1 ORDER BY created_at DESC`, managerID)
}

func (r *PostgresRepository) ListPending(ctx context.Context, managerID string) ([]*models.FeedbackRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM feedback_requests WHERE manager_id = $1 AND status = 'pending' ORDER BY created_at`, managerID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.FeedbackRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FeedbackRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Resolve moves a pending request to status, linking feedbackID when given.
// A request that is no longer pending yields common.ErrConflict.
func (r *PostgresRepository) Resolve(ctx context.Context, id string, status api.RequestStatus, feedbackID *string) (*models.FeedbackRequest, error) {
	query :=
		`UPDATE feedback_requests
		 SET status = $2, feedback_id = COALESCE($3, feedback_id), updated_at = now()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, status, feedbackID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrConflict
		}
		if dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}
