package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/joblyhq/jobly/pkg/config"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func openSQLite(cfg *config.Config) (*sql.DB, error) {
	connector, err := newSQLiteConnector(sqliteshim.Driver(), cfg.DatabaseFilePath)
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(&sqliteConnector{
		Connector: connector,
		pragmas: []string{
			"PRAGMA foreign_keys = ON",
			fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.DatabaseBusyTimeout.Milliseconds()),
		},
		maxRetries: cfg.DatabaseMaxRetries,
	}), nil
}

// newSQLiteConnector uses the driver's own connector when it has one. Neither
// mattn/go-sqlite3 nor modernc.org/sqlite implements driver.DriverContext, so
// in practice this falls back to driverConnector.
func newSQLiteConnector(drv driver.Driver, dsn string) (driver.Connector, error) {
	if dc, ok := drv.(driver.DriverContext); ok {
		connector, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return connector, nil
	}
	return newDriverConnector(drv, dsn), nil
}

// driverConnector wraps a driver.Driver to implement driver.Connector so it
// can be used with sql.OpenDB.
type driverConnector struct {
	driver driver.Driver
	dsn    string
}

func newDriverConnector(drv driver.Driver, dsn string) *driverConnector {
	return &driverConnector{driver: drv, dsn: dsn}
}

func (dc *driverConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.driver.Open(dc.dsn)
}

func (dc *driverConnector) Driver() driver.Driver {
	return dc.driver
}

// sqliteConnector applies connection-scoped pragmas to every new connection.
// SQLite only enforces foreign keys on connections that opt in, so setting
// them once on the pool isn't enough.
type sqliteConnector struct {
	driver.Connector
	pragmas    []string
	maxRetries int
}

func (sc *sqliteConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := sc.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		_ = conn.Close()
		return nil, errors.New("sqlite connection can't execute pragmas")
	}
	for _, pragma := range sc.pragmas {
		if _, err := execer.ExecContext(ctx, pragma, nil); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "failed to run %q", pragma)
		}
	}

	return &busyRetryConn{Conn: conn, maxRetries: sc.maxRetries}, nil
}

// isBusyError checks if the error is a SQLite BUSY or LOCKED error. Works with
// both mattn/go-sqlite3 and modernc.org/sqlite.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}

// retryWithBackoff runs fn until it stops failing with a busy error, backing
// off exponentially with jitter and capping each delay at 2 seconds.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	baseDelay := 50 * time.Millisecond

	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if !isBusyError(err) || attempt >= maxRetries {
			return err
		}

		delay := baseDelay * time.Duration(1<<attempt)
		delay += time.Duration(rand.Int63n(int64(delay / 4))) //nolint:gosec
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// busyRetryConn retries statements that lose a lock race. busy_timeout covers
// most contention; this covers the cases SQLite returns BUSY immediately, such
// as upgrading a read transaction to a write.
type busyRetryConn struct {
	driver.Conn
	maxRetries int
}

func (c *busyRetryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	beginner, ok := c.Conn.(driver.ConnBeginTx)
	if !ok {
		return c.Conn.Begin() //nolint:staticcheck
	}
	var tx driver.Tx
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		tx, innerErr = beginner.BeginTx(ctx, opts)
		return innerErr
	})
	return tx, err
}

func (c *busyRetryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if preparer, ok := c.Conn.(driver.ConnPrepareContext); ok {
		return preparer.PrepareContext(ctx, query)
	}
	return c.Conn.Prepare(query)
}

func (c *busyRetryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var result driver.Result
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		result, innerErr = execer.ExecContext(ctx, query, args)
		return innerErr
	})
	return result, err
}

func (c *busyRetryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var rows driver.Rows
	err := retryWithBackoff(ctx, c.maxRetries, func() error {
		var innerErr error
		rows, innerErr = queryer.QueryContext(ctx, query, args)
		return innerErr
	})
	return rows, err
}

func (c *busyRetryConn) CheckNamedValue(nv *driver.NamedValue) error {
	if checker, ok := c.Conn.(driver.NamedValueChecker); ok {
		return checker.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

func (c *busyRetryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.Conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

func (c *busyRetryConn) IsValid() bool {
	if validator, ok := c.Conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
