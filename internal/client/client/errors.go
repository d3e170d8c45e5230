package client

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnavailable         = errors.New("server unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbiddenSelfDelete = errors.New("cannot delete own account")
	ErrConflict            = errors.New("user already exists")
	ErrValidation          = errors.New("validation failed")
)

// APIError is a failed call classified into one of the sentinel kinds.
type APIError struct {
	Op     Op
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Detail returns the server-supplied message carried by err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// ValidationError is a local form check that failed before any call was made.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
