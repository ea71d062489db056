package sqlutil

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a lowercased LIKE pattern matching any value that
// contains s. Wildcards in s match literally, so the pattern must be used with
// `ESCAPE '\'`.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// QueryRow runs a statement with numbered placeholders directly on the
// connection pool. bun only formats `?` placeholders, so these statements
// don't pass through its query hooks and are logged here instead.
func QueryRow(ctx context.Context, db *bun.DB, query string, args ...any) *sql.Row {
	logger.FromContext(ctx).Debug(query, logger.Data{"args": len(args)})
	return db.DB.QueryRowContext(ctx, query, args...)
}

// Exec is QueryRow for statements that don't return rows.
func Exec(ctx context.Context, db *bun.DB, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.DB.ExecContext(ctx, query, args...)
	data := logger.Data{"args": len(args), "duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		logger.FromContext(ctx).Err(err).Debug(query, data)
		return nil, errors.WithStack(err)
	}
	logger.FromContext(ctx).Debug(query, data)
	return res, nil
}
