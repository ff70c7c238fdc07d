package service

import (
	"errors"
	"fmt"
)

// Service-level sentinel errors.
var (
	// ErrMissingImage is returned when a generation request has no source
	// image reference.
	ErrMissingImage = errors.New("source image reference is required")

	// ErrInvalidUser is returned when the caller identity is missing or
	// malformed. The auth middleware should make this unreachable.
	ErrInvalidUser = errors.New("invalid user identity")
)

// GenerationServiceError is a custom error type for generation service errors.
type GenerationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
func NewGenerationServiceError(operation, message string, err error) *GenerationServiceError {
	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
