package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a single-row lookup finds nothing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyFavorited maps a uniqueness violation on favorites.
	ErrAlreadyFavorited = errors.New("tool already favorited")
	// ErrNoIdentity is returned by per-user operations without a user in context.
	ErrNoIdentity = errors.New("user identity is required")
)

// ValidationError reports a write rejected before reaching the remote service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RemoteError wraps a failure reported by the remote data service.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
