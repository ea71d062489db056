package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/binder"
	"github.com/joblyhq/jobly/pkg/companies"
	"github.com/joblyhq/jobly/pkg/config"
	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/jobs"
	"github.com/joblyhq/jobly/pkg/roles"
	"github.com/joblyhq/jobly/pkg/testutils"
	"github.com/joblyhq/jobly/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = binder.JSONSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret, cfg.TokenExpiry)
	authMiddleware := auth.NewMiddleware(authService)

	// Register user and role management routes
	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)

	// Reads are public, writes check permissions per route
	jobs.RegisterRoutesWithGroup(e.Group("/jobs"), db, authMiddleware)
	companies.RegisterRoutesWithGroup(e.Group("/companies"), db, authMiddleware)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db, cfg.JWTSecret)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
