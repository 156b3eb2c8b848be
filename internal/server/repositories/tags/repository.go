package tags

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	ListForFeedback(ctx context.Context, feedbackID string) ([]models.Tag, error)
	SetForFeedback(ctx context.Context, feedbackID string, tagIDs []string) error
}
