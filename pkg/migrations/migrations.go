package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations)
	err := migrator.Init(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}

// serialPK returns the column definition of an auto-incrementing integer
// primary key for the database's dialect.
func serialPK(db *bun.DB) string {
	if db.Dialect().Name() == dialect.PG {
		return "SERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// decimalType is the column type used for exact decimal strings. SQLite would
// coerce NUMERIC values into floats, so it stores them as text.
func decimalType(db *bun.DB) string {
	if db.Dialect().Name() == dialect.PG {
		return "NUMERIC"
	}
	return "TEXT"
}
