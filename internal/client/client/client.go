package client

import (
	"context"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

// Client is the portal backend as seen by the page controllers.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, email, password string) (api.Token, error)
	Register(ctx context.Context, in api.UserCreate) (api.User, error)
	CurrentUser(ctx context.Context, token string) (api.User, error)
	UserByEmail(ctx context.Context, email string) (api.User, error)

	Team(ctx context.Context, managerID string) ([]api.User, error)
	AvailableEmployees(ctx context.Context, managerID string) ([]api.User, error)
	AssignEmployee(ctx context.Context, managerID, employeeID string) (api.User, error)

	ListFeedback(ctx context.Context) ([]api.Feedback, error)
	EmployeeFeedback(ctx context.Context) ([]api.Feedback, error)
	ManagerFeedback(ctx context.Context) ([]api.Feedback, error)
	GetFeedback(ctx context.Context, id string) (api.Feedback, error)
	CreateFeedback(ctx context.Context, in api.FeedbackCreate) (api.Feedback, error)
	UpdateFeedback(ctx context.Context, id string, in api.FeedbackUpdate) (api.Feedback, error)
	Acknowledge(ctx context.Context, id string, comment *string) (api.Acknowledgement, error)
	AcknowledgementStatus(ctx context.Context, id, employeeID string) (api.AcknowledgementStatus, error)
	AddComment(ctx context.Context, id, text string) (api.Comment, error)
	ExportPDF(ctx context.Context, id string) (Download, error)

	ManagerStats(ctx context.Context) (api.ManagerStats, error)
	EmployeeDashboard(ctx context.Context, employeeID string) (api.EmployeeDashboard, error)

	ListFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error)
	PendingFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error)
	ManagerFeedbackRequests(ctx context.Context) ([]api.FeedbackRequest, error)
	CreateFeedbackRequest(ctx context.Context, message *string) (api.FeedbackRequest, error)
	ApproveFeedbackRequest(ctx context.Context, id string) (api.FeedbackRequest, error)
	DenyFeedbackRequest(ctx context.Context, id string) (api.FeedbackRequest, error)

	ListTags(ctx context.Context) ([]api.Tag, error)
	CreateTag(ctx context.Context, name string) (api.Tag, error)
}

// TokenSource yields the bearer token attached to outgoing requests.
// An empty token means the request is sent anonymously.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Download is a binary response saved by the caller.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}
