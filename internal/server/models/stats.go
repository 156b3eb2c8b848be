package models

import "github.com/dmitrijs2005/feedbackportal/internal/api"

// ManagerStats aggregates a manager's authored feedback.
type ManagerStats struct {
	FeedbackCount     int
	TeamSize          int
	AcknowledgedCount int
	PendingRequests   int
	SentimentTrends   map[api.Sentiment]int
}
