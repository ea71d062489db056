package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/joblyhq/jobly/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestNew_SQLiteEnforcesForeignKeys(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE parents (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents (id))`)
	require.NoError(t, err)

	// Force a few distinct pooled connections so each one runs the pragmas.
	db.SetMaxIdleConns(0)
	for i := 0; i < 3; i++ {
		_, err = db.Exec(`INSERT INTO children (parent_id) VALUES (42)`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FOREIGN KEY")
	}
}

func TestNew_SQLiteAppliesPragmas(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.DatabaseBusyTimeout = 2500 * time.Millisecond

	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	var foreignKeys, busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 1, foreignKeys)
	assert.Equal(t, 2500, busyTimeout)
}

func TestNewSQLiteConnector(t *testing.T) {
	t.Parallel()

	connector, err := newSQLiteConnector(sqliteshim.Driver(), filepath.Join(t.TempDir(), "conn.db"))
	require.NoError(t, err)
	assert.NotNil(t, connector.Driver())

	conn, err := connector.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.DatabaseDriver = "oracle"

	db, err := New(cfg)
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "oracle"`)
}

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("database table is locked"), true},
		{errors.New("sqlite: step: SQLITE_BUSY"), true},
		{errors.New("SQLITE_LOCKED"), true},
		{errors.New("connection refused"), false},
		{errors.New("FOREIGN KEY constraint failed"), false},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.expected, isBusyError(tt.err), "%v", tt.err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("retries on busy error and succeeds", func(tt *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(tt, err)
		assert.Equal(tt, 3, attempts)
	})

	t.Run("fails immediately on non-busy error", func(tt *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return errors.New("connection refused")
		})
		require.Error(tt, err)
		assert.Equal(tt, 1, attempts)
	})

	t.Run("exhausts all retries on persistent busy error", func(tt *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 2, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(tt, err)
		assert.Equal(tt, 3, attempts) // 1 initial + 2 retries
	})

	t.Run("respects context cancellation", func(tt *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := retryWithBackoff(ctx, 10, func() error {
			return errors.New("database is locked")
		})
		require.ErrorIs(tt, err, context.DeadlineExceeded)
	})
}
