package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoResponse   = errors.New("no response from server")
)

// UnauthorizedError is returned when the backend rejects the bearer token.
// Token is the token the failing request carried, so an observer can tell a
// stale rejection from one against the current session.
type UnauthorizedError struct {
	Token  string
	Detail string
}

func (e *UnauthorizedError) Error() string {
	if e.Detail != "" {
		return "unauthorized: " + e.Detail
	}
	return ErrUnauthorized.Error()
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// APIError is a non-2xx response other than a token rejection.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
