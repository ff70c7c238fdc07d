package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// PostgreSQL error codes this store cares about.
const (
	uniqueViolationCode = "23505" // duplicate key
	undefinedTableCode  = "42P01" // relation does not exist
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isUndefinedTable checks if the given error means a queried table does not
// exist. Partially-migrated deployments can run without the ledger schema;
// callers translate this into a graceful skip rather than a hard failure.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}

// mapCreditError converts low-level database errors into the store package's
// sentinel errors so that callers never depend on driver details.
func mapCreditError(err error, operation string) error {
	switch {
	case err == nil:
		return nil
	case isUndefinedTable(err):
		return store.ErrSchemaMissing
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrAccountNotFound
	default:
		return store.NewStoreError("credit_account", operation, "database error", err)
	}
}
