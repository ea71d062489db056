package jobs

import (
	"net/http"
	"strconv"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	jobService *Service
}

// listedJob is a job as it appears in listings, with its company's name.
type listedJob struct {
	*models.Job
	CompanyName *string `json:"companyName"`
}

// jobDetail is a single job with its full company in place of the handle.
type jobDetail struct {
	ID      int             `json:"id"`
	Title   string          `json:"title"`
	Salary  *int            `json:"salary"`
	Equity  *string         `json:"equity"`
	Company *models.Company `json:"company"`
}

func idParam(c echo.Context) (int, error) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errcodes.NotFound("Job " + raw)
	}
	return id, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CreateJobPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	job := &models.Job{
		Title:         params.Title,
		Salary:        params.Salary,
		Equity:        params.Equity,
		CompanyHandle: params.CompanyHandle,
	}

	err := h.jobService.CreateJob(ctx, job)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, echo.Map{"job": job}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListJobsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	jobs, err := h.jobService.ListJobs(ctx, ListJobsOptions{
		Title:     params.Title,
		MinSalary: params.MinSalary,
		HasEquity: params.HasEquity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	listed := make([]listedJob, 0, len(jobs))
	for _, job := range jobs {
		listed = append(listed, listedJob{Job: job, CompanyName: job.CompanyName})
	}

	resp := struct {
		Jobs []listedJob `json:"jobs"`
	}{listed}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}

	job, company, err := h.jobService.RetrieveJobWithCompany(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	detail := jobDetail{
		ID:      job.ID,
		Title:   job.Title,
		Salary:  job.Salary,
		Equity:  job.Equity,
		Company: company,
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"job": detail}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}

	// Bind params.
	params := UpdateJobPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	job, err := h.jobService.UpdateJob(ctx, id, UpdateJobOptions{
		Title:  params.Title,
		Salary: params.Salary,
		Equity: params.Equity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"job": job}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.jobService.DeleteJob(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"deleted": id}))
}
