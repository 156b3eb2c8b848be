package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 2
	minPasswordLen = 8
	maxTagNameLen  = 64
)

func invalid(detail string) error { return common.Detail(common.ErrValidation, detail) }

func forbidden(detail string) error { return common.Detail(common.ErrForbidden, detail) }

func notFound(detail string) error { return common.Detail(common.ErrNotFound, detail) }

func validateUserCreate(in api.UserCreate) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minNameLen {
		return invalid("Name must be at least 2 characters long")
	}
	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		return invalid("Invalid email address")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return invalid("Password must be at least 8 characters long")
	}
	if !in.Role.Valid() {
		return invalid("Role must be manager or employee")
	}
	return nil
}

func validateFeedbackText(strengths string, sentiment api.Sentiment) error {
	if strings.TrimSpace(strengths) == "" {
		return invalid("Strengths are required")
	}
	if !sentiment.Valid() {
		return invalid("Sentiment must be positive, neutral or negative")
	}
	return nil
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
