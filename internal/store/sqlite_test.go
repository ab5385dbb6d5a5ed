package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a migrated store in a temporary file. Each call to the
// returned tick advances the store clock by one second.
func newTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "chat_logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, func() { clock = clock.Add(time.Second) }
}

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestNewSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_logs.db")

	s1, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	_, err = s1.CreateUser(context.Background(), "Ann", "ann@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	defer s2.Close()

	u, err := s2.GetUserByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Ann", u.Name)
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, _ *sql.DB, _ string, _ ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize schema")
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.withTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		return errors.New("nope")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = s.withTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}
