package pages

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 2
	minPasswordLen = 8
)

// SignupForm is the signup page's input.
type SignupForm struct {
	Name     string
	Email    string
	Password string
	Role     api.Role
}

// Validate returns nil when the form may be submitted.
func (f SignupForm) Validate() *ValidationError {
	fields := map[string]string{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		fields["name"] = "Name is required"
	case utf8.RuneCountInString(name) < minNameLen:
		fields["name"] = "Name must be at least 2 characters long"
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		fields["email"] = "Email is required"
	case !emailRe.MatchString(email):
		fields["email"] = "Please enter a valid email address"
	}

	switch {
	case f.Password == "":
		fields["password"] = "Password is required"
	case utf8.RuneCountInString(f.Password) < minPasswordLen:
		fields["password"] = "Password must be at least 8 characters long"
	}

	if f.Role != "" && !f.Role.Valid() {
		fields["role"] = "Role must be manager or employee"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// normalized trims the name and lower-cases the email.
func (f SignupForm) normalized() api.UserCreate {
	role := f.Role
	if role == "" {
		role = api.RoleEmployee
	}
	return api.UserCreate{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		Password: f.Password,
		Role:     role,
	}
}

// LoginForm is the login page's input.
type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(f.Email) == "" {
		fields["email"] = "Email is required"
	}
	if f.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// FeedbackForm is the manager's new-feedback form. RequestID is set when the
// form was opened by responding to a pending request.
type FeedbackForm struct {
	EmployeeID   string
	Strengths    string
	Improvements string
	Sentiment    api.Sentiment
	TagIDs       []string
	RequestID    *string
}

func NewFeedbackForm() FeedbackForm {
	return FeedbackForm{Sentiment: api.SentimentPositive}
}

func (f FeedbackForm) Validate() *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(f.EmployeeID) == "" {
		fields["employee_id"] = "Select an employee"
	}
	if strings.TrimSpace(f.Strengths) == "" {
		fields["strengths"] = "Strengths are required"
	}
	if !f.Sentiment.Valid() {
		fields["sentiment"] = "Sentiment must be positive, neutral or negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// EditForm is the in-place edit of an existing feedback entry.
type EditForm struct {
	FeedbackID   string
	Strengths    string
	Improvements string
	Sentiment    api.Sentiment
	TagIDs       []string
}

func (f EditForm) Validate() *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(f.Strengths) == "" {
		fields["strengths"] = "Strengths are required"
	}
	if !f.Sentiment.Valid() {
		fields["sentiment"] = "Sentiment must be positive, neutral or negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
