package session

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDB = errors.New("db is down")

func newMockRepo(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestSet_DBError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO session`)).
		WithArgs("username", "alice", later.UnixNano()).
		WillReturnError(errDB)

	err := r.Set(context.Background(), "username", "alice", later)
	require.ErrorIs(t, err, errDB)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ScanError(t *testing.T) {
	r, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"key", "value", "expires_at"}).
		AddRow("logged", "true", "not-a-number")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value, expires_at FROM session WHERE expires_at > ?`)).
		WithArgs(t0.UnixNano()).
		WillReturnRows(rows)

	_, err := r.List(context.Background(), t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan session row")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_RowError(t *testing.T) {
	r, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"key", "value", "expires_at"}).
		AddRow("logged", "true", later.UnixNano()).
		RowError(0, errDB)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value, expires_at FROM session`)).
		WillReturnRows(rows)

	_, err := r.List(context.Background(), t0)
	require.ErrorIs(t, err, errDB)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurge_RowsAffected(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session WHERE expires_at <= ?`)).
		WithArgs(t0.UnixNano()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := r.Purge(context.Background(), t0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session WHERE expires_at <= ?`)).
		WillReturnResult(sqlmock.NewErrorResult(errDB))

	_, err = r.Purge(context.Background(), t0)
	require.ErrorIs(t, err, errDB)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_DBError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session WHERE key = ?`)).WithArgs("logged").WillReturnError(errDB)

	err := r.Delete(context.Background(), "logged")
	require.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "failed to delete session[logged]")
	require.NoError(t, mock.ExpectationsWereMet())
}
