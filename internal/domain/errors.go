package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrWeakPassword       = errors.New("weak password")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStorageTimeout     = errors.New("storage timeout")
	ErrStorageUnavailable = errors.New("storage unavailable")
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

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AuthorizationError reports a role that is not allowed to perform an action.
type AuthorizationError struct {
	Role   Role
	Action Action
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %s is not allowed to %s", e.Role, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// PasswordPolicyError lists the password policy requirements that were not met.
type PasswordPolicyError struct {
	Missing []string
}

func (e *PasswordPolicyError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("password policy: %s", e.Missing[0])
	}
	return fmt.Sprintf("password policy: %d requirements not met", len(e.Missing))
}

func (e *PasswordPolicyError) Unwrap() error { return ErrWeakPassword }
