package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// CreditService exposes read access to a user's balance and history, plus
// administrative grants. Deductions never go through here; only the
// generation orchestrator debits, and only after confirmed vendor success.
type CreditService interface {
	// GetBalance returns the user's credit account. Users without an
	// account read as zero balance rather than an error.
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)

	// GetHistory returns the user's most recent history entries, newest
	// first.
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.CreditHistoryEntry, error)

	// Grant credits a user's account. entryType must be purchase, bonus,
	// or refund.
	Grant(ctx context.Context, userID uuid.UUID, amount int64, entryType domain.CreditEntryType, description string) (int64, error)
}

// creditServiceImpl implements the CreditService interface
type creditServiceImpl struct {
	credits store.CreditStore
	logger  *slog.Logger
}

// NewCreditService creates a new CreditService.
func NewCreditService(credits store.CreditStore, log *slog.Logger) (CreditService, error) {
	if credits == nil {
		return nil, errors.New("credit store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &creditServiceImpl{
		credits: credits,
		logger:  log.With(slog.String("component", "credit_service")),
	}, nil
}

// GetBalance implements CreditService.GetBalance
func (s *creditServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	account, err := s.credits.GetAccount(ctx, userID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return &domain.CreditAccount{UserID: userID, Balance: 0}, nil
	}
	if err != nil {
		return nil, NewGenerationServiceError("get_balance", "failed to load credit account", err)
	}
	return account, nil
}

// GetHistory implements CreditService.GetHistory
func (s *creditServiceImpl) GetHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.CreditHistoryEntry, error) {
	entries, err := s.credits.ListHistory(ctx, userID, limit)
	if err != nil {
		return nil, NewGenerationServiceError("get_history", "failed to load credit history", err)
	}
	return entries, nil
}

// Grant implements CreditService.Grant
func (s *creditServiceImpl) Grant(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	entryType domain.CreditEntryType,
	description string,
) (int64, error) {
	if entryType == domain.CreditEntryDeduct || !entryType.IsValid() {
		return 0, fmt.Errorf("%w: grants must be purchase, bonus, or refund", domain.ErrInvalidEntryType)
	}

	newBalance, err := s.credits.Credit(ctx, userID, amount, entryType, description)
	if err != nil {
		return 0, NewGenerationServiceError("grant", "failed to credit account", err)
	}

	s.logger.InfoContext(ctx, "granted credits",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.String("type", string(entryType)))

	return newBalance, nil
}
