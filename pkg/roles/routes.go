package roles

import (
	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all role routes. Roles are seeded by migrations and
// can only be read.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	roleService := NewService(db)

	h := &handler{
		roleService: roleService,
	}

	roles := e.Group("/roles")

	// All role routes require authentication
	roles.Use(authMiddleware.Authenticate)

	// Roles are part of user management
	roles.GET("", h.list, authMiddleware.RequirePermission(models.ResourceUsers, models.OperationRead))
	roles.GET("/:id", h.retrieve, authMiddleware.RequirePermission(models.ResourceUsers, models.OperationRead))

	return roleService
}
