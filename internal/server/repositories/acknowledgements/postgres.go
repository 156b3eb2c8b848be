package acknowledgements

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

// Create records an acknowledgement. A second one for the same
// (feedback, employee) pair yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, ack *models.Acknowledgement) (*models.Acknowledgement, error) {
	query :=
		`INSERT INTO acknowledgements (feedback_id, employee_id, comment)
		 VALUES ($1, $2, $3)
		 RETURNING acknowledged_at
		 `

	err := r.db.QueryRowContext(ctx, query, ack.FeedbackID, ack.EmployeeID, ack.Comment).Scan(&ack.AcknowledgedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ack, nil
}

func (r *PostgresRepository) Get(ctx context.Context, feedbackID, employeeID string) (*models.Acknowledgement, error) {
	query :=
		`SELECT feedback_id, employee_id, acknowledged_at, comment FROM acknowledgements
		 WHERE feedback_id = $1 AND employee_id = $2
		 `

	ack := &models.Acknowledgement{}
	err := r.db.QueryRowContext(ctx, query, feedbackID, employeeID).
		Scan(&ack.FeedbackID, &ack.EmployeeID, &ack.AcknowledgedAt, &ack.Comment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ack, nil
}
