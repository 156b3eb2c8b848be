package httpapi

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, in api.UserCreate) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (string, error)
	Principal(ctx context.Context, userID string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type TeamService interface {
	Team(ctx context.Context, caller *models.User, managerID string) ([]*models.User, error)
	Available(ctx context.Context, caller *models.User, managerID string) ([]*models.User, error)
	Assign(ctx context.Context, caller *models.User, managerID, employeeID string) (*models.User, error)
}

type FeedbackService interface {
	Create(ctx context.Context, caller *models.User, in api.FeedbackCreate) (*models.Feedback, error)
	Update(ctx context.Context, caller *models.User, id string, in api.FeedbackUpdate) (*models.Feedback, error)
	Get(ctx context.Context, caller *models.User, id string) (*models.Feedback, error)
	List(ctx context.Context, caller *models.User) ([]*models.Feedback, error)
	ForEmployee(ctx context.Context, caller *models.User) ([]*models.Feedback, error)
	ForManager(ctx context.Context, caller *models.User) ([]*models.Feedback, error)
	Acknowledge(ctx context.Context, caller *models.User, id string, comment *string) (*models.Acknowledgement, error)
	AcknowledgementStatus(ctx context.Context, caller *models.User, id, employeeID string) (*models.Acknowledgement, error)
	AddComment(ctx context.Context, caller *models.User, id, text string) (*models.Comment, error)
}

type DashboardService interface {
	ManagerStats(ctx context.Context, caller *models.User) (*models.ManagerStats, error)
	Employee(ctx context.Context, caller *models.User, employeeID string) (*services.EmployeeDashboard, error)
}

type RequestService interface {
	Create(ctx context.Context, caller *models.User, message *string) (*models.FeedbackRequest, error)
	List(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error)
	Pending(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error)
	ForManager(ctx context.Context, caller *models.User) ([]*models.FeedbackRequest, error)
	Approve(ctx context.Context, caller *models.User, id string) (*models.FeedbackRequest, error)
	Deny(ctx context.Context, caller *models.User, id string) (*models.FeedbackRequest, error)
}

type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Create(ctx context.Context, caller *models.User, name string) (*models.Tag, error)
}

type ExportService interface {
	PDF(ctx context.Context, caller *models.User, id string) ([]byte, error)
}

// Services bundles everything the router dispatches to.
type Services struct {
	Users      UserService
	Teams      TeamService
	Feedback   FeedbackService
	Dashboards DashboardService
	Requests   RequestService
	Tags       TagService
	Exports    ExportService
}
