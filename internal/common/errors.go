package common

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrInternal      = errors.New("internal error")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// DetailError pairs a sentinel kind with the message shown to API callers.
// errors.Is matches the kind; Error returns the detail.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *DetailError) Unwrap() error { return e.Kind }

// Detail builds a DetailError.
func Detail(kind error, detail string) error {
	return &DetailError{Kind: kind, Detail: detail}
}
