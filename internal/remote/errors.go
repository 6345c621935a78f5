package remote

import (
	"errors"
	"fmt"
)

const (
	// ErrCodeNoRows is reported when a single-row request matched zero or many rows.
	ErrCodeNoRows = "PGRST116"
	// ErrCodeUniqueViolation is the PostgreSQL unique_violation SQLSTATE.
	ErrCodeUniqueViolation = "23505"
)

// Error is a failure reported by the remote service.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (code %s)", msg, e.Code)
	}
	return msg
}

// NoRows builds the error returned when a single-row request did not
// match exactly one row.
func NoRows(n int) *Error {
	return &Error{
		Code:    ErrCodeNoRows,
		Message: "JSON object requested, multiple (or no) rows returned",
		Details: fmt.Sprintf("The result contains %d rows", n),
		Status:  406,
	}
}

// IsNoRows reports whether err is a single-row miss.
func IsNoRows(err error) bool {
	return hasCode(err, ErrCodeNoRows)
}

// IsUniqueViolation reports whether err is a uniqueness conflict.
func IsUniqueViolation(err error) bool {
	return hasCode(err, ErrCodeUniqueViolation)
}

func hasCode(err error, code string) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == code
}
