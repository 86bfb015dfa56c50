// Package view holds one container per dashboard screen. Each view fetches
// its own rows, keeps a private copy, filters and pages it locally and pushes
// edits through the optimistic mutation helper. Views never share state.
package view

import (
	"errors"

	"github.com/garyjia/expense-dashboard/internal/session"
)

var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned by admin screens for a non-admin session
	ErrForbidden = errors.New("admin role required")

	// ErrPendingRow is returned when editing a row the server has not confirmed yet
	ErrPendingRow = errors.New("row is still being saved")
)

// ValidationError reports a form field rejected before any request was sent
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrValidation) true
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

func requireAdmin(reader session.Reader) error {
	if !reader.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
