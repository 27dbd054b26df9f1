package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConfig        = errors.New("configuration error")
	ErrExternal      = errors.New("external service error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// WrapExternal tags err as an upstream provider failure while keeping the
// original error chain intact.
func WrapExternal(err error) error {
	return fmt.Errorf("%w: %w", ErrExternal, err)
}

// NewConfigError wraps ErrConfig with a description of the missing or
// placeholder setting. Configuration errors are non-retryable: the
// component refuses to start rather than failing on first use.
func NewConfigError(setting, message string) error {
	return fmt.Errorf("%s: %s: %w", setting, message, ErrConfig)
}
