// Package api holds the JSON wire types and route paths shared by the
// portal's REST server and its client.
package api

import "time"

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists every sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestDenied    RequestStatus = "denied"
	RequestCompleted RequestStatus = "completed"
)

type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TagCreate struct {
	Name string `json:"name"`
}

type Acknowledgement struct {
	FeedbackID     string    `json:"feedback_id"`
	EmployeeID     string    `json:"employee_id"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
	Comment        *string   `json:"comment,omitempty"`
}

type AcknowledgementCreate struct {
	Comment *string `json:"comment,omitempty"`
}

type AcknowledgementStatus struct {
	Acknowledged    bool             `json:"acknowledged"`
	Acknowledgement *Acknowledgement `json:"acknowledgement"`
}

type Comment struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedback_id"`
	AuthorID   string    `json:"author_id"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentCreate struct {
	Comment string `json:"comment"`
}

type Feedback struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	ManagerID       string           `json:"manager_id"`
	Strengths       string           `json:"strengths"`
	Improvements    string           `json:"improvements"`
	Sentiment       Sentiment        `json:"sentiment"`
	Tags            []Tag            `json:"tags"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Acknowledgement *Acknowledgement `json:"acknowledgement"`
	Comments        []Comment        `json:"comments"`
}

// Acknowledged reports whether the subject employee has acknowledged f.
func (f Feedback) Acknowledged() bool {
	return f.Acknowledgement != nil
}

type FeedbackCreate struct {
	EmployeeID   string    `json:"employee_id"`
	Strengths    string    `json:"strengths"`
	Improvements string    `json:"improvements"`
	Sentiment    Sentiment `json:"sentiment"`
	TagIDs       []string  `json:"tag_ids"`
	RequestID    *string   `json:"request_id,omitempty"`
}

type FeedbackUpdate struct {
	Strengths    string    `json:"strengths"`
	Improvements string    `json:"improvements"`
	Sentiment    Sentiment `json:"sentiment"`
	TagIDs       []string  `json:"tag_ids"`
}

type FeedbackRequest struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	ManagerID  string        `json:"manager_id"`
	Message    *string       `json:"message,omitempty"`
	Status     RequestStatus `json:"status"`
	FeedbackID *string       `json:"feedback_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type FeedbackRequestCreate struct {
	Message *string `json:"message,omitempty"`
}

type ManagerStats struct {
	FeedbackCount     int               `json:"feedback_count"`
	TeamSize          int               `json:"team_size"`
	AcknowledgedCount int               `json:"acknowledged_count"`
	PendingRequests   int               `json:"pending_requests"`
	SentimentTrends   map[Sentiment]int `json:"sentiment_trends"`
}

type EmployeeDashboard struct {
	Employee          User              `json:"employee"`
	Timeline          []Feedback        `json:"timeline"`
	SentimentTrends   map[Sentiment]int `json:"sentiment_trends"`
	AcknowledgedCount int               `json:"acknowledged_count"`
}

// ErrorBody is the shape of every non-2xx JSON response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// NewSentimentTrends returns a trend map with every sentiment at zero.
func NewSentimentTrends() map[Sentiment]int {
	m := make(map[Sentiment]int, len(Sentiments))
	for _, s := range Sentiments {
		m[s] = 0
	}
	return m
}
