package companies

import (
	"net/http"

	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	companyService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CreateCompanyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	company := &models.Company{
		Handle:       params.Handle,
		Name:         params.Name,
		Description:  params.Description,
		NumEmployees: params.NumEmployees,
		LogoURL:      params.LogoURL,
	}

	err := h.companyService.CreateCompany(ctx, company)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, echo.Map{"company": company}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListCompaniesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	companies, err := h.companyService.ListCompanies(ctx, ListCompaniesOptions{
		Name:         params.Name,
		MinEmployees: params.MinEmployees,
		MaxEmployees: params.MaxEmployees,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Companies []*models.Company `json:"companies"`
	}{companies}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	company, err := h.companyService.RetrieveCompany(ctx, c.Param("handle"))
	if err != nil {
		return errors.WithStack(err)
	}
	detail := struct {
		*models.Company
		Jobs []*models.Job `json:"jobs"`
	}{company, company.Jobs}
	if detail.Jobs == nil {
		detail.Jobs = []*models.Job{}
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"company": detail}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := UpdateCompanyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	company, err := h.companyService.UpdateCompany(ctx, c.Param("handle"), UpdateCompanyOptions{
		Name:         params.Name,
		Description:  params.Description,
		NumEmployees: params.NumEmployees,
		LogoURL:      params.LogoURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"company": company}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	handle := c.Param("handle")

	if err := h.companyService.DeleteCompany(ctx, handle); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"deleted": handle}))
}
