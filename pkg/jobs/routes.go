package jobs

import (
	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers job routes on a pre-configured group.
// Reads are public; writes need the jobs:write permission.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	jobService := NewService(db)

	h := &handler{
		jobService: jobService,
	}

	canWrite := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceJobs, models.OperationWrite),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, canWrite...)
	g.PATCH("/:id", h.update, canWrite...)
	g.DELETE("/:id", h.delete, canWrite...)
}
