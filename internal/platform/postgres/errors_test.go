package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

func TestIsUndefinedTable(t *testing.T) {
	t.Parallel()

	assert.True(t, isUndefinedTable(&pgconn.PgError{Code: undefinedTableCode}))
	assert.True(t, isUndefinedTable(fmt.Errorf("query: %w", &pgconn.PgError{Code: undefinedTableCode})))
	assert.False(t, isUndefinedTable(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, isUndefinedTable(errors.New("plain error")))
	assert.False(t, isUndefinedTable(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: undefinedTableCode}))
	assert.False(t, isUniqueViolation(nil))
}

func TestMapCreditError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"undefined table maps to schema missing", &pgconn.PgError{Code: undefinedTableCode}, store.ErrSchemaMissing},
		{"no rows maps to account not found", sql.ErrNoRows, store.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mapCreditError(tt.err, "get")
			if tt.want == nil {
				assert.NoError(t, got)
			} else {
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}

func TestMapCreditErrorWrapsUnknownErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	got := mapCreditError(cause, "debit")

	var storeErr *store.StoreError
	assert.ErrorAs(t, got, &storeErr)
	assert.Equal(t, "debit", storeErr.Operation)
	assert.Equal(t, "credit_account", storeErr.Entity)
	assert.ErrorIs(t, got, cause)
}
