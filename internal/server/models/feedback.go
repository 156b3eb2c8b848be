package models

import (
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Acknowledgement struct {
	FeedbackID     string
	EmployeeID     string
	AcknowledgedAt time.Time
	Comment        *string
}

type Comment struct {
	ID         string
	FeedbackID string
	AuthorID   string
	Comment    string
	CreatedAt  time.Time
}

// Feedback is one manager-to-employee review. Tags, Acknowledgement and
// Comments are filled in by the service, not by the feedback repository.
type Feedback struct {
	ID              string
	EmployeeID      string
	ManagerID       string
	Strengths       string
	Improvements    string
	Sentiment       api.Sentiment
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Tags            []Tag
	Acknowledgement *Acknowledgement
	Comments        []Comment
}

// VisibleTo reports whether userID is the author or the subject.
func (f *Feedback) VisibleTo(userID string) bool {
	return f.ManagerID == userID || f.EmployeeID == userID
}
