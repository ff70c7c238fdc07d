package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrAccountNotFound is returned when a user has no credit account row.
	ErrAccountNotFound = errors.New("credit account not found")

	// ErrInsufficientCredits is returned when a debit would drive a balance
	// below zero. The conditional update enforces this atomically; callers
	// never observe a negative balance.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrSchemaMissing is returned when the ledger tables do not exist yet.
	// Partially-migrated deployments hit this; callers degrade gracefully
	// (skip the balance gate) instead of failing the whole request.
	ErrSchemaMissing = errors.New("credit ledger schema missing")

	// ErrInvalidAmount is returned when a mutation amount is not a positive
	// integer.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")
)

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "credit_account")
	Operation string // The operation that failed (e.g., "debit", "credit")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
