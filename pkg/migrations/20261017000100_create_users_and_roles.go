package migrations

import (
	"context"
	"fmt"

	"github.com/joblyhq/jobly/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		_, err := db.Exec(fmt.Sprintf(`
			CREATE TABLE roles (
				id %s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL UNIQUE,
				is_system BOOLEAN NOT NULL DEFAULT FALSE
			)
`, serialPK(db)))
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE permissions (
				id %s,
				role_id INTEGER NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
				resource TEXT NOT NULL,
				operation TEXT NOT NULL,
				UNIQUE (role_id, resource, operation)
			)
`, serialPK(db)))
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE users (
				id %s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL UNIQUE,
				email TEXT,
				password_hash TEXT NOT NULL,
				role_id INTEGER NOT NULL REFERENCES roles (id),
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)
`, serialPK(db)))
		if err != nil {
			return errors.WithStack(err)
		}

		grants := map[string][][2]string{
			models.RoleAdmin: {
				{models.ResourceCompanies, models.OperationRead},
				{models.ResourceCompanies, models.OperationWrite},
				{models.ResourceJobs, models.OperationRead},
				{models.ResourceJobs, models.OperationWrite},
				{models.ResourceUsers, models.OperationRead},
				{models.ResourceUsers, models.OperationWrite},
			},
			models.RoleViewer: {
				{models.ResourceCompanies, models.OperationRead},
				{models.ResourceJobs, models.OperationRead},
			},
		}
		for _, name := range []string{models.RoleAdmin, models.RoleViewer} {
			role := &models.Role{Name: name, IsSystem: true}
			_, err = db.NewInsert().Model(role).Returning("id").Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			for _, g := range grants[name] {
				_, err = db.NewInsert().Model(&models.Permission{
					RoleID:    role.ID,
					Resource:  g[0],
					Operation: g[1],
				}).Exec(ctx)
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"users", "permissions", "roles"} {
			_, err := db.Exec("DROP TABLE IF EXISTS " + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
