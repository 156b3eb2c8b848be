package acknowledgements

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, ack *models.Acknowledgement) (*models.Acknowledgement, error)
	Get(ctx context.Context, feedbackID, employeeID string) (*models.Acknowledgement, error)
}
