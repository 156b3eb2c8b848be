package httpapi

import (
	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/services"
)

func toUser(u *models.User) api.User {
	return api.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, ManagerID: u.ManagerID}
}

func toUsers(list []*models.User) []api.User {
	out := make([]api.User, 0, len(list))
	for _, u := range list {
		out = append(out, toUser(u))
	}
	return out
}

func toTag(t models.Tag) api.Tag { return api.Tag{ID: t.ID, Name: t.Name} }

func toTags(list []models.Tag) []api.Tag {
	out := make([]api.Tag, 0, len(list))
	for _, t := range list {
		out = append(out, toTag(t))
	}
	return out
}

func toAcknowledgement(a *models.Acknowledgement) *api.Acknowledgement {
	if a == nil {
		return nil
	}
	return &api.Acknowledgement{
		FeedbackID:     a.FeedbackID,
		EmployeeID:     a.EmployeeID,
		AcknowledgedAt: a.AcknowledgedAt,
		Comment:        a.Comment,
	}
}

func toComment(c models.Comment) api.Comment {
	return api.Comment{ID: c.ID, FeedbackID: c.FeedbackID, AuthorID: c.AuthorID, Comment: c.Comment, CreatedAt: c.CreatedAt}
}

func toFeedback(f *models.Feedback) api.Feedback {
	comments := make([]api.Comment, 0, len(f.Comments))
	for _, c := range f.Comments {
		comments = append(comments, toComment(c))
	}
	return api.Feedback{
		ID:              f.ID,
		EmployeeID:      f.EmployeeID,
		ManagerID:       f.ManagerID,
		Strengths:       f.Strengths,
		Improvements:    f.Improvements,
		Sentiment:       f.Sentiment,
		Tags:            toTags(f.Tags),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
		Acknowledgement: toAcknowledgement(f.Acknowledgement),
		Comments:        comments,
	}
}

func toFeedbackList(list []*models.Feedback) []api.Feedback {
	out := make([]api.Feedback, 0, len(list))
	for _, f := range list {
		out = append(out, toFeedback(f))
	}
	return out
}

func toRequest(r *models.FeedbackRequest) api.FeedbackRequest {
	return api.FeedbackRequest{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		ManagerID:  r.ManagerID,
		Message:    r.Message,
		Status:     r.Status,
		FeedbackID: r.FeedbackID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toRequests(list []*models.FeedbackRequest) []api.FeedbackRequest {
	out := make([]api.FeedbackRequest, 0, len(list))
	for _, r := range list {
		out = append(out, toRequest(r))
	}
	return out
}

func toManagerStats(s *models.ManagerStats) api.ManagerStats {
	return api.ManagerStats{
		FeedbackCount:     s.FeedbackCount,
		TeamSize:          s.TeamSize,
		AcknowledgedCount: s.AcknowledgedCount,
		PendingRequests:   s.PendingRequests,
		SentimentTrends:   s.SentimentTrends,
	}
}

func toEmployeeDashboard(d *services.EmployeeDashboard) api.EmployeeDashboard {
	return api.EmployeeDashboard{
		Employee:          toUser(d.Employee),
		Timeline:          toFeedbackList(d.Timeline),
		SentimentTrends:   d.SentimentTrends,
		AcknowledgedCount: d.AcknowledgedCount,
	}
}
