package comments

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	ListForFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error)
}
