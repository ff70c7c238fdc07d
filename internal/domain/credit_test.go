package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
)

func TestNewCreditHistoryEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	entry, err := domain.NewCreditHistoryEntry(userID, -1, domain.CreditEntryDeduct, "photo generation")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, int64(-1), entry.Amount)
	assert.Equal(t, domain.CreditEntryDeduct, entry.Type)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestCreditHistoryEntryValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name      string
		userID    uuid.UUID
		amount    int64
		entryType domain.CreditEntryType
		wantErr   error
	}{
		{"valid deduct", userID, -1, domain.CreditEntryDeduct, nil},
		{"valid purchase", userID, 10, domain.CreditEntryPurchase, nil},
		{"valid bonus", userID, 3, domain.CreditEntryBonus, nil},
		{"valid refund", userID, 1, domain.CreditEntryRefund, nil},
		{"nil user ID", uuid.Nil, -1, domain.CreditEntryDeduct, domain.ErrCreditUserIDEmpty},
		{"zero amount", userID, 0, domain.CreditEntryDeduct, domain.ErrCreditAmountZero},
		{"positive deduct", userID, 1, domain.CreditEntryDeduct, domain.ErrCreditAmountSign},
		{"negative purchase", userID, -5, domain.CreditEntryPurchase, domain.ErrCreditAmountSign},
		{"unknown type", userID, 1, domain.CreditEntryType("chargeback"), domain.ErrInvalidEntryType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.NewCreditHistoryEntry(tt.userID, tt.amount, tt.entryType, "test")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreditEntryTypeIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.CreditEntryPurchase.IsValid())
	assert.True(t, domain.CreditEntryDeduct.IsValid())
	assert.True(t, domain.CreditEntryBonus.IsValid())
	assert.True(t, domain.CreditEntryRefund.IsValid())
	assert.False(t, domain.CreditEntryType("").IsValid())
	assert.False(t, domain.CreditEntryType("gift").IsValid())
}
