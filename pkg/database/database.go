package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joblyhq/jobly/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		qh.log.Err(event.Err).Debug(event.Query, data)
		return
	}
	qh.log.Debug(event.Query, data)
}

// New opens the configured database and waits until it accepts queries.
func New(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		cc, err := pgx.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid database_url")
		}
		db = bun.NewDB(stdlib.OpenDB(*cc), pgdialect.New())
	case config.DriverSQLite, "":
		sqldb, err := openSQLite(cfg)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	// print out all queries in debug mode
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	var err error
	// Retry up to a few times to ensure that the database can connect.
	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err != nil {
			time.Sleep(cfg.DatabaseConnectRetryDelay)
			continue
		}
		break
	}
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	if db.Dialect().Name() == dialect.SQLite {
		// WAL mode allows concurrent reads during writes.
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "failed to enable WAL mode")
		}
	}

	return db, nil
}
