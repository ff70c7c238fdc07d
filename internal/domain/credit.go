package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Credit-specific validation errors
var (
	// ErrCreditUserIDEmpty is returned when a credit entity's user ID is empty or nil.
	ErrCreditUserIDEmpty = errors.New("credit user ID cannot be empty")

	// ErrCreditAmountZero is returned when a history entry's amount is zero.
	ErrCreditAmountZero = errors.New("credit amount cannot be zero")

	// ErrCreditAmountSign is returned when an entry's amount sign contradicts its type
	// (e.g. a deduct entry with a positive amount).
	ErrCreditAmountSign = errors.New("credit amount sign does not match entry type")

	// ErrInvalidEntryType is returned when a history entry type is not one of
	// the known values.
	ErrInvalidEntryType = errors.New("invalid credit entry type")
)

// CreditEntryType identifies why a user's balance changed.
type CreditEntryType string

// Known credit entry types. History rows only ever carry one of these.
const (
	CreditEntryPurchase CreditEntryType = "purchase"
	CreditEntryDeduct   CreditEntryType = "deduct"
	CreditEntryBonus    CreditEntryType = "bonus"
	CreditEntryRefund   CreditEntryType = "refund"
)

// IsValid reports whether the entry type is one of the known values.
func (t CreditEntryType) IsValid() bool {
	switch t {
	case CreditEntryPurchase, CreditEntryDeduct, CreditEntryBonus, CreditEntryRefund:
		return true
	}
	return false
}

// CreditAccount is a user's prepaid balance. The balance is mutated only
// through the store's atomic operations, never read-then-written, so two
// concurrent generations from the same user cannot lose an update.
type CreditAccount struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditHistoryEntry is one append-only row of a user's balance history.
// Entries are never mutated or deleted; the sum of a user's entries equals
// their current balance.
type CreditHistoryEntry struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        CreditEntryType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewCreditHistoryEntry creates a validated history entry with a fresh ID and
// creation timestamp.
func NewCreditHistoryEntry(
	userID uuid.UUID,
	amount int64,
	entryType CreditEntryType,
	description string,
) (*CreditHistoryEntry, error) {
	entry := &CreditHistoryEntry{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Type:        entryType,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the entry has valid data.
func (e *CreditHistoryEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrCreditUserIDEmpty
	}

	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}

	if e.Amount == 0 {
		return ErrCreditAmountZero
	}

	// Deductions are negative, everything else is positive.
	switch e.Type {
	case CreditEntryDeduct:
		if e.Amount > 0 {
			return ErrCreditAmountSign
		}
	default:
		if e.Amount < 0 {
			return ErrCreditAmountSign
		}
	}

	return nil
}
