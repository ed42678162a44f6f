package common

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned when an order does not exist for the caller's tenant.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnauthorizedTenant is returned when no tenant could be resolved for a request.
	ErrUnauthorizedTenant = errors.New("tenant could not be resolved")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OrderWriteError means the order header could not be persisted. Nothing
// else of the request was written.
type OrderWriteError struct {
	Cause error
}

func (e *OrderWriteError) Error() string {
	return fmt.Sprintf("failed to create order: %v", e.Cause)
}

func (e *OrderWriteError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
