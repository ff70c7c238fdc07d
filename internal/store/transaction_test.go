package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// stubDriver scripts transaction failures at the driver level so the helper
// can be exercised without a real database.
type stubDriver struct {
	beginErr  error
	commitErr error
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return &stubConn{d: d}, nil }

type stubConnector struct{ d *stubDriver }

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{d: c.d}, nil
}
func (c stubConnector) Driver() driver.Driver { return c.d }

type stubConn struct{ d *stubDriver }

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *stubConn) Close() error { return nil }
func (c *stubConn) Begin() (driver.Tx, error) {
	if c.d.beginErr != nil {
		return nil, c.d.beginErr
	}
	return &stubTx{d: c.d}, nil
}

type stubTx struct{ d *stubDriver }

func (t *stubTx) Commit() error   { return t.d.commitErr }
func (t *stubTx) Rollback() error { return nil }

func stubDB(d *stubDriver) *sql.DB {
	return sql.OpenDB(stubConnector{d: d})
}

func TestRunInTransactionBeginFailure(t *testing.T) {
	t.Parallel()

	db := stubDB(&stubDriver{beginErr: errors.New("connection refused")})
	defer func() { _ = db.Close() }()

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		t.Error("transaction body must not run when begin fails")
		return nil
	})

	assert.ErrorIs(t, err, store.ErrTransactionFailed)
}

func TestRunInTransactionCommitFailure(t *testing.T) {
	t.Parallel()

	db := stubDB(&stubDriver{commitErr: errors.New("server closed the connection")})
	defer func() { _ = db.Close() }()

	ran := false
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		ran = true
		return nil
	})

	require.True(t, ran)
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
}

func TestRunInTransactionBodyErrorPassesThrough(t *testing.T) {
	t.Parallel()

	db := stubDB(&stubDriver{})
	defer func() { _ = db.Close() }()

	bodyErr := errors.New("row conflict")
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return bodyErr
	})

	assert.ErrorIs(t, err, bodyErr)
	assert.NotErrorIs(t, err, store.ErrTransactionFailed)
}
