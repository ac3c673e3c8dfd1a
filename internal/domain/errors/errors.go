package errors

import (
	"errors"
	"fmt"
)

var (
	// Settings errors
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidScope    = errors.New("invalid store scope")

	// Payment errors
	ErrPaymentFailed       = errors.New("payment failed")
	ErrInvalidTransactMode = errors.New("not supported transaction type")
	ErrNilOrder            = errors.New("order must not be nil")

	// Gateway errors
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("request rejected by payment gateway")
	ErrGatewayTimeout     = errors.New("payment gateway request timeout")

	// Localization errors
	ErrResourceNotFound = errors.New("locale resource not found")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
