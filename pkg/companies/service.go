package companies

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/joblyhq/jobly/pkg/sqlutil"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Field is an updatable column of the companies table.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldNumEmployees
	FieldLogoURL
)

func (f Field) Column() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDescription:
		return "description"
	case FieldNumEmployees:
		return "num_employees"
	case FieldLogoURL:
		return "logo_url"
	}
	panic(fmt.Sprintf("companies: unknown field %d", int(f)))
}

const returningColumns = "handle, name, description, num_employees, logo_url"

type ListCompaniesOptions struct {
	Name         *string
	MinEmployees *int
	MaxEmployees *int
}

// UpdateCompanyOptions holds the fields to change. Nil fields are left as is.
type UpdateCompanyOptions struct {
	Name         *string
	Description  *string
	NumEmployees *int
	LogoURL      *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func companyNotFound(handle string) error {
	return errcodes.NotFound("Company " + handle)
}

// CreateCompany inserts the company, failing if the handle is already taken.
func (svc *Service) CreateCompany(ctx context.Context, company *models.Company) error {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Company)(nil)).
		Where("c.handle = ?", company.Handle).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.BadRequest("Duplicate company: " + company.Handle)
	}

	_, err = svc.db.
		NewInsert().
		Model(company).
		Returning(returningColumns).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ListCompanies returns the matching companies ordered by name.
func (svc *Service) ListCompanies(ctx context.Context, opts ListCompaniesOptions) ([]*models.Company, error) {
	if opts.MinEmployees != nil && opts.MaxEmployees != nil && *opts.MinEmployees > *opts.MaxEmployees {
		return nil, errcodes.BadRequest("Min employees cannot be greater than max")
	}

	companies := []*models.Company{}

	q := svc.db.
		NewSelect().
		Model(&companies).
		Order("c.name ASC")

	if opts.Name != nil {
		q = q.Where(`LOWER(c.name) LIKE ? ESCAPE '\'`, sqlutil.ContainsPattern(*opts.Name))
	}
	if opts.MinEmployees != nil {
		q = q.Where("c.num_employees >= ?", *opts.MinEmployees)
	}
	if opts.MaxEmployees != nil {
		q = q.Where("c.num_employees <= ?", *opts.MaxEmployees)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return companies, nil
}

// RetrieveCompany returns the company with its jobs ordered by id.
func (svc *Service) RetrieveCompany(ctx context.Context, handle string) (*models.Company, error) {
	company := &models.Company{}

	err := svc.db.
		NewSelect().
		Model(company).
		Relation("Jobs", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("j.id ASC")
		}).
		Where("c.handle = ?", handle).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, companyNotFound(handle)
		}
		return nil, errors.WithStack(err)
	}

	return company, nil
}

// UpdateCompany applies the given fields to the company and returns the
// updated row. The handle can't be changed.
func (svc *Service) UpdateCompany(ctx context.Context, handle string, opts UpdateCompanyOptions) (*models.Company, error) {
	b := sqlutil.NewBuilder[Field]()
	if opts.Name != nil {
		b.Set(FieldName, *opts.Name)
	}
	if opts.Description != nil {
		b.Set(FieldDescription, *opts.Description)
	}
	if opts.NumEmployees != nil {
		b.Set(FieldNumEmployees, *opts.NumEmployees)
	}
	if opts.LogoURL != nil {
		b.Set(FieldLogoURL, *opts.LogoURL)
	}

	sc, err := b.Build()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE companies SET %s WHERE handle = %s RETURNING %s`,
		sc.SQL, sc.NextPlaceholder(), returningColumns,
	)

	company := &models.Company{}
	err = sqlutil.QueryRow(ctx, svc.db, query, sc.With(handle)...).
		Scan(&company.Handle, &company.Name, &company.Description, &company.NumEmployees, &company.LogoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, companyNotFound(handle)
		}
		return nil, errors.WithStack(err)
	}

	return company, nil
}

// DeleteCompany removes the company along with its jobs.
func (svc *Service) DeleteCompany(ctx context.Context, handle string) error {
	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Jobs go first so nothing is orphaned where foreign keys aren't
		// enforced.
		_, err := tx.NewDelete().
			Model((*models.Job)(nil)).
			Where("company_handle = ?", handle).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Company)(nil)).
			Where("handle = ?", handle).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return companyNotFound(handle)
		}

		return nil
	})
}
