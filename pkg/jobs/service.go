package jobs

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

// Field is an updatable column of the jobs table.
type Field int

const (
	FieldTitle Field = iota
	FieldSalary
	FieldEquity
)

func (f Field) Column() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldSalary:
		return "salary"
	case FieldEquity:
		return "equity"
	}
	panic(fmt.Sprintf("jobs: unknown field %d", int(f)))
}

const returningColumns = "id, title, salary, equity, company_handle"

type RetrieveJobOptions struct {
	ID *int
}

type ListJobsOptions struct {
	Title     *string
	MinSalary *int
	HasEquity *bool
}

// UpdateJobOptions holds the fields to change. Nil fields are left as is.
type UpdateJobOptions struct {
	Title  *string
	Salary *int
	Equity *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func jobNotFound(id int) error {
	return errcodes.NotFound(fmt.Sprintf("Job %d", id))
}

func (svc *Service) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := svc.db.
		NewInsert().
		Model(job).
		Returning(returningColumns).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveJob(ctx context.Context, opts RetrieveJobOptions) (*models.Job, error) {
	job := &models.Job{}

	q := svc.db.
		NewSelect().
		Model(job)

	if opts.ID != nil {
		q = q.Where("j.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if opts.ID != nil {
				return nil, jobNotFound(*opts.ID)
			}
			return nil, errcodes.NotFound("Job")
		}
		return nil, errors.WithStack(err)
	}

	return job, nil
}

// RetrieveJobWithCompany returns the job and the company it belongs to. The
// company is nil if its row no longer exists.
func (svc *Service) RetrieveJobWithCompany(ctx context.Context, id int) (*models.Job, *models.Company, error) {
	job, err := svc.RetrieveJob(ctx, RetrieveJobOptions{ID: &id})
	if err != nil {
		return nil, nil, err
	}

	company := &models.Company{}
	err = svc.db.
		NewSelect().
		Model(company).
		Where("c.handle = ?", job.CompanyHandle).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job, nil, nil
		}
		return nil, nil, errors.WithStack(err)
	}

	return job, company, nil
}

// ListJobs returns the matching jobs ordered by title, each with the name of
// its company.
func (svc *Service) ListJobs(ctx context.Context, opts ListJobsOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}

	q := svc.db.
		NewSelect().
		Model(&jobs).
		ColumnExpr("j.id, j.title, j.salary, j.equity, j.company_handle").
		ColumnExpr("c.name AS company_name").
		Join("LEFT JOIN companies AS c ON c.handle = j.company_handle").
		Order("j.title ASC", "j.id ASC")

	if opts.Title != nil {
		q = q.Where(`LOWER(j.title) LIKE ? ESCAPE '\'`, sqlutil.ContainsPattern(*opts.Title))
	}
	if opts.MinSalary != nil {
		q = q.Where("j.salary >= ?", *opts.MinSalary)
	}
	if opts.HasEquity != nil && *opts.HasEquity {
		// sqlite stores equity as text, so compare numerically
		q = q.Where("CAST(j.equity AS REAL) > 0")
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return jobs, nil
}

// UpdateJob applies the given fields to the job and returns the updated row.
func (svc *Service) UpdateJob(ctx context.Context, id int, opts UpdateJobOptions) (*models.Job, error) {
	b := sqlutil.NewBuilder[Field]()
	if opts.Title != nil {
		b.Set(FieldTitle, *opts.Title)
	}
	if opts.Salary != nil {
		b.Set(FieldSalary, *opts.Salary)
	}
	if opts.Equity != nil {
		b.Set(FieldEquity, *opts.Equity)
	}

	sc, err := b.Build()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE jobs SET %s WHERE id = %s RETURNING %s`,
		sc.SQL, sc.NextPlaceholder(), returningColumns,
	)

	job := &models.Job{}
	err = sqlutil.QueryRow(ctx, svc.db, query, sc.With(id)...).
		Scan(&job.ID, &job.Title, &job.Salary, &job.Equity, &job.CompanyHandle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, jobNotFound(id)
		}
		return nil, errors.WithStack(err)
	}

	return job, nil
}

func (svc *Service) DeleteJob(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Job)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return jobNotFound(id)
	}

	return nil
}
