package feedback

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	Update(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.Feedback, error)
	ListByManager(ctx context.Context, managerID string) ([]*models.Feedback, error)
}
