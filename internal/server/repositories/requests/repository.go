package requests

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.FeedbackRequest) (*models.FeedbackRequest, error)
	GetByID(ctx context.Context, id string) (*models.FeedbackRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.FeedbackRequest, error)
	ListByManager(ctx context.Context, managerID string) ([]*models.FeedbackRequest, error)
	ListPending(ctx context.Context, managerID string) ([]*models.FeedbackRequest, error)
	Resolve(ctx context.Context, id string, status api.RequestStatus, feedbackID *string) (*models.FeedbackRequest, error)
}
