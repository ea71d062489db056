package migrations

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE companies (
				handle VARCHAR(25) PRIMARY KEY CHECK (handle = lower(handle)),
				name TEXT NOT NULL UNIQUE,
				num_employees INTEGER CHECK (num_employees >= 0),
				description TEXT NOT NULL,
				logo_url TEXT
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE jobs (
				id %s,
				title TEXT NOT NULL,
				salary INTEGER CHECK (salary >= 0),
				equity %s,
				company_handle VARCHAR(25) NOT NULL REFERENCES companies (handle) ON DELETE CASCADE
			)
`, serialPK(db), decimalType(db)))
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_jobs_company_handle ON jobs (company_handle)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_jobs_title ON jobs (title)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS jobs`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DROP TABLE IF EXISTS companies`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
