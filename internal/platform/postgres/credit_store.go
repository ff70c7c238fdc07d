package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// PostgresCreditStore implements the store.CreditStore interface using a
// PostgreSQL database as the storage backend. Balance mutations run as
// single transactions that also append the matching history row, so the
// ledger invariant (sum of history == balance) holds under concurrency.
type PostgresCreditStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCreditStore creates a new PostgreSQL implementation of the
// CreditStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresCreditStore(db *sql.DB, logger *slog.Logger) *PostgresCreditStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil for PostgresCreditStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCreditStore{
		db:     db,
		logger: logger.With(slog.String("component", "credit_store")),
	}
}

// Ensure PostgresCreditStore implements store.CreditStore interface
var _ store.CreditStore = (*PostgresCreditStore)(nil)

// GetAccount implements store.CreditStore.GetAccount
func (s *PostgresCreditStore) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	account := &domain.CreditAccount{UserID: userID}

	err := s.db.QueryRowContext(ctx,
		`SELECT balance, updated_at FROM credit_accounts WHERE user_id = $1`,
		userID,
	).Scan(&account.Balance, &account.UpdatedAt)
	if err != nil {
		return nil, mapCreditError(err, "get")
	}

	return account, nil
}

// TryDebit implements store.CreditStore.TryDebit
//
// The decrement is a conditional UPDATE guarded by balance >= amount, so two
// concurrent debits against the same account serialize on the row lock and
// the balance can never go negative. The history row is appended in the same
// transaction; either both land or neither does.
func (s *PostgresCreditStore) TryDebit(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	description string,
) (int64, error) {
	if amount <= 0 {
		return 0, store.ErrInvalidAmount
	}

	entry, err := domain.NewCreditHistoryEntry(userID, -amount, domain.CreditEntryDeduct, description)
	if err != nil {
		return 0, err
	}

	var newBalance int64
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`UPDATE credit_accounts
			    SET balance = balance - $1, updated_at = now()
			  WHERE user_id = $2 AND balance >= $1
			 RETURNING balance`,
			amount, userID,
		).Scan(&newBalance)

		if errors.Is(err, sql.ErrNoRows) {
			// Either the account doesn't exist or the balance is too
			// low; distinguish so callers can report accurately.
			var exists bool
			checkErr := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM credit_accounts WHERE user_id = $1)`,
				userID,
			).Scan(&exists)
			if checkErr != nil {
				return checkErr
			}
			if !exists {
				return store.ErrAccountNotFound
			}
			return store.ErrInsufficientCredits
		}
		if err != nil {
			return err
		}

		return s.appendHistory(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) || errors.Is(err, store.ErrInsufficientCredits) {
			return 0, err
		}
		return 0, mapCreditError(err, "debit")
	}

	s.logger.DebugContext(ctx, "debited credits",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.Int64("new_balance", newBalance))

	return newBalance, nil
}

// Credit implements store.CreditStore.Credit
//
// Creates the account on first credit. Upsert plus history append run in one
// transaction.
func (s *PostgresCreditStore) Credit(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	entryType domain.CreditEntryType,
	description string,
) (int64, error) {
	if amount <= 0 {
		return 0, store.ErrInvalidAmount
	}

	entry, err := domain.NewCreditHistoryEntry(userID, amount, entryType, description)
	if err != nil {
		return 0, err
	}

	var newBalance int64
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO credit_accounts (user_id, balance, updated_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (user_id)
			 DO UPDATE SET balance = credit_accounts.balance + EXCLUDED.balance, updated_at = now()
			 RETURNING balance`,
			userID, amount,
		).Scan(&newBalance)
		if err != nil {
			return err
		}

		return s.appendHistory(ctx, tx, entry)
	})
	if err != nil {
		return 0, mapCreditError(err, "credit")
	}

	s.logger.DebugContext(ctx, "credited account",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.String("type", string(entryType)),
		slog.Int64("new_balance", newBalance))

	return newBalance, nil
}

// ListHistory implements store.CreditStore.ListHistory
func (s *PostgresCreditStore) ListHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.CreditHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount, type, description, created_at
		   FROM credit_history
		  WHERE user_id = $1
		  ORDER BY created_at DESC
		  LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, mapCreditError(err, "list_history")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "failed to close history rows",
				slog.String("error", closeErr.Error()))
		}
	}()

	var entries []*domain.CreditHistoryEntry
	for rows.Next() {
		entry := &domain.CreditHistoryEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Type,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, mapCreditError(err, "list_history")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapCreditError(err, "list_history")
	}

	return entries, nil
}

// appendHistory inserts one append-only history row. It accepts any DBTX so
// it runs identically inside a transaction or on a bare connection.
func (s *PostgresCreditStore) appendHistory(ctx context.Context, db store.DBTX, entry *domain.CreditHistoryEntry) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO credit_history (id, user_id, amount, type, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.Amount, entry.Type, entry.Description, entry.CreatedAt,
	)
	return err
}
