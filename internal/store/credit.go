package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
)

// CreditStore defines the contract for the credit ledger. Every balance
// mutation is a single atomic operation that also appends the matching
// history row; there is no separate read-then-write path, which is what
// keeps concurrent requests for the same account race-free.
type CreditStore interface {
	// GetAccount returns a user's credit account.
	// Returns ErrAccountNotFound if the user has no account and
	// ErrSchemaMissing if the ledger tables are absent.
	GetAccount(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)

	// TryDebit atomically decrements the balance by amount and appends a
	// deduct history entry, in one transaction. The decrement is
	// conditional: it only applies when balance >= amount.
	// Returns the new balance, or ErrInsufficientCredits /
	// ErrAccountNotFound / ErrSchemaMissing.
	TryDebit(ctx context.Context, userID uuid.UUID, amount int64, description string) (int64, error)

	// Credit atomically increments the balance by amount and appends a
	// history entry of the given type, creating the account if needed.
	// Returns the new balance.
	Credit(ctx context.Context, userID uuid.UUID, amount int64, entryType domain.CreditEntryType, description string) (int64, error)

	// ListHistory returns a user's most recent history entries,
	// newest first, up to limit.
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.CreditHistoryEntry, error)
}
