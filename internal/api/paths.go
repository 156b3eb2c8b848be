package api

import (
	"net/url"
	"strings"
)

const (
	PathToken                = "/token"
	PathUsers                = "/users/"
	PathUsersMe              = "/users/me/"
	PathFeedback             = "/feedback/"
	PathFeedbackEmployee     = "/feedback/employee/"
	PathFeedbackManager      = "/feedback/manager/"
	PathManagerStats         = "/dashboard/manager-stats/"
	PathFeedbackRequests     = "/feedback-requests/"
	PathFeedbackRequestsPend = "/feedback-requests/pending/"
	PathFeedbackRequestsMgr  = "/feedback-requests/manager/"
	PathTags                 = "/tags/"
	PathHealthz              = "/healthz"
	PathMetrics              = "/metrics"
	TokenTypeBearer          = "bearer"
	ContentTypeJSON          = "application/json"
	ContentTypeForm          = "application/x-www-form-urlencoded"
	ContentTypePDF           = "application/pdf"
)

func seg(s string) string { return url.PathEscape(s) }

func join(parts ...string) string { return strings.Join(parts, "/") }

func UserByEmail(email string) string { return join("/users/by_email", seg(email)) }

func ManagerTeam(managerID string) string {
	return join("/manager", seg(managerID), "team")
}

func ManagerAvailable(managerID string) string {
	return join("/manager", seg(managerID), "available-employees")
}

func ManagerAssign(managerID, employeeID string) string {
	return join("/manager", seg(managerID), "assign-employee", seg(employeeID))
}

func FeedbackItem(id string) string { return join("/feedback", seg(id)) }

func FeedbackAcknowledge(id string) string { return join("/feedback", seg(id), "acknowledge") }

func FeedbackAcknowledgement(id, employeeID string) string {
	return join("/feedback", seg(id), "acknowledgement", seg(employeeID))
}

func FeedbackPDF(id string) string { return join("/feedback", seg(id), "pdf") }

func FeedbackComments(id string) string { return join("/feedback", seg(id), "comments") + "/" }

func EmployeeDashboardPath(employeeID string) string {
	return join("/dashboard/employee", seg(employeeID))
}

func FeedbackRequestApprove(id string) string {
	return join("/feedback-requests", seg(id), "approve")
}

func FeedbackRequestDeny(id string) string {
	return join("/feedback-requests", seg(id), "deny")
}

// PDFFilename is the name a downloaded feedback export is saved under.
func PDFFilename(feedbackID string) string { return "feedback_" + feedbackID + ".pdf" }
