package filekeep

import "errors"

var (
	// ErrNotFound is returned when a file record or blob does not exist
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when a dependency (blob or metadata store) fails
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when a credential is missing, malformed or rejected
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when an authenticated principal is not entitled to a file
	ErrForbidden = errors.New("forbidden")
)

// Kind classifies an error for the transport boundary.
type Kind string

const (
	KindAuth       Kind = "unauthorized"
	KindValidation Kind = "invalid_input"
	KindNotFound   Kind = "not_found"
	KindPermission Kind = "forbidden"
	KindInternal   Kind = "internal_error"
)

// KindOf reports which kind err belongs to. ErrInternal takes precedence so a
// dependency failure never leaks as a client error. Anything that does not wrap
// one of the package sentinels is treated as internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindPermission
	default:
		return KindInternal
	}
}
