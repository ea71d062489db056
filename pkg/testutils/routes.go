// Package testutils provides test-only API endpoints and helpers for tests
// that need a migrated database.
// The routes are only registered when ENVIRONMENT=test.
package testutils

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers test-only routes.
// These endpoints should ONLY be registered in test environments.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret string) {
	h := &handler{db: db, jwtSecret: jwtSecret}

	test := e.Group("/test")
	test.POST("/users", h.createUser)
	test.DELETE("/users", h.deleteAllUsers)
	test.DELETE("/data", h.deleteAllData)
}
