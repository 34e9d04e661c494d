package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB API operations.
var (
	ErrNotConfigured = errors.New("tmdb: no API key configured")
	ErrNotFound      = errors.New("tmdb: not found")
	ErrUnauthorized  = errors.New("tmdb: invalid API key")
	ErrRateLimited   = errors.New("tmdb: rate limited by server")
	ErrBadRequest    = errors.New("tmdb: bad request")
	ErrServer        = errors.New("tmdb: server error")
	ErrNoMatch       = errors.New("tmdb: no matching title")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "search", "details", "credits", ...
	Kind Kind
	ID   int // If applicable
	Err  error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("tmdb %s [%s/%d]: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, kind Kind, id int, err error) error {
	return &Error{Op: op, Kind: kind, ID: id, Err: err}
}

// isLookupMiss reports errors that describe the request, not the provider's
// health. They never trip the circuit breaker.
func isLookupMiss(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrNoMatch)
}
