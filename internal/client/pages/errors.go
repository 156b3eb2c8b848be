package pages

import (
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/feedbackportal/internal/client/client"
)

var (
	ErrBusy                = errors.New("request already in progress")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyAcknowledged = errors.New("feedback already acknowledged")
	ErrNoSession           = errors.New("not signed in")
)

// ValidationError lists field-level problems found before any request is
// sent. Fields maps a field name to its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Message converts an error into the text shown to the user.
func Message(err error) string {
	var ve *ValidationError
	var apiErr *client.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrNoResponse):
		return "no response from server, check your network"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return err.Error()
}
