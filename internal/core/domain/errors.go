package domain

import (
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrClientNotFound = errors.New("client not found")
var ErrInvoiceNotFound = errors.New("invoice not found")
var ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// ValidationError reports a single field that failed an invariant check.
// It is the only error type that carries user-facing detail; everything
// else surfaces as a generic failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
