package service_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlmock-backed *sql.DB for transaction boundaries.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sqlmockExpect queues transaction expectations.
type sqlmockExpect struct {
	mock sqlmock.Sqlmock
}

func (e *sqlmockExpect) commit() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *sqlmockExpect) rollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e *sqlmockExpect) verify(t *testing.T) {
	t.Helper()
	require.NoError(t, e.mock.ExpectationsWereMet())
}
