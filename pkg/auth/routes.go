package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all auth routes and returns the auth service.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret string, tokenExpiry time.Duration) *Service {
	authService := NewService(db, jwtSecret, tokenExpiry)
	authMiddleware := NewMiddleware(authService)

	h := &handler{
		authService: authService,
	}

	auth := e.Group("/auth")
	auth.POST("/token", h.token)
	auth.POST("/register", h.register)
	auth.POST("/setup", h.setup)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me, authMiddleware.Authenticate)

	return authService
}
