package roles

import (
	"net/http"
	"strconv"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	roleService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	roles, err := h.roleService.List(ctx)
	if err != nil {
		return err
	}

	resp := struct {
		Roles []*models.Role `json:"roles"`
	}{roles}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Role")
	}

	role, err := h.roleService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{"role": role}))
}
