package models

import (
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

type FeedbackRequest struct {
	ID         string
	EmployeeID string
	ManagerID  string
	Message    *string
	Status     api.RequestStatus
	FeedbackID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *FeedbackRequest) Pending() bool { return r.Status == api.RequestPending }
