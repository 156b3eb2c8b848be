package users

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListTeam(ctx context.Context, managerID string) ([]*models.User, error)
	ListAvailable(ctx context.Context) ([]*models.User, error)
	SetManager(ctx context.Context, employeeID, managerID string) error
}
