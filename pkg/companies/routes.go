package companies

import (
	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers company routes on a pre-configured group.
// Reads are public; writes need the companies:write permission.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	companyService := NewService(db)

	h := &handler{
		companyService: companyService,
	}

	canWrite := []echo.MiddlewareFunc{
		authMiddleware.Authenticate,
		authMiddleware.RequirePermission(models.ResourceCompanies, models.OperationWrite),
	}

	g.GET("", h.list)
	g.GET("/:handle", h.retrieve)
	g.POST("", h.create, canWrite...)
	g.PATCH("/:handle", h.update, canWrite...)
	g.DELETE("/:handle", h.delete, canWrite...)
}
