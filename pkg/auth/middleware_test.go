package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t), "secret", time.Hour)
	m := NewMiddleware(svc)

	admin, err := svc.CreateFirstAdmin(ctx, "admin", nil, "password")
	require.NoError(t, err)
	viewer, err := svc.Register(ctx, "viewer", nil, "password")
	require.NoError(t, err)

	adminToken, err := svc.GenerateToken(admin)
	require.NoError(t, err)
	viewerToken, err := svc.GenerateToken(viewer)
	require.NoError(t, err)

	writeJobs := m.Authenticate(m.RequirePermission(models.ResourceJobs, models.OperationWrite)(ok))

	run := func(h echo.HandlerFunc, setup func(r *http.Request)) error {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		if setup != nil {
			setup(req)
		}
		c := echo.New().NewContext(req, httptest.NewRecorder())
		return h(c)
	}
	bearer := func(token string) func(r *http.Request) {
		return func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
	}

	t.Run("anonymous callers are unauthorized", func(tt *testing.T) {
		assertHTTPCode(tt, run(writeJobs, nil), http.StatusUnauthorized)
	})

	t.Run("garbage tokens are unauthorized", func(tt *testing.T) {
		assertHTTPCode(tt, run(writeJobs, bearer("not-a-jwt")), http.StatusUnauthorized)
	})

	t.Run("users without the permission are forbidden", func(tt *testing.T) {
		err := run(writeJobs, bearer(viewerToken))
		assertHTTPCode(tt, err, http.StatusForbidden)
		assert.EqualError(tt, err, "Permission jobs:write is not allowed.")
	})

	t.Run("users with the permission get through", func(tt *testing.T) {
		assert.NoError(tt, run(writeJobs, bearer(adminToken)))
	})

	t.Run("reads the session cookie", func(tt *testing.T) {
		err := run(writeJobs, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: adminToken})
		})
		assert.NoError(tt, err)
	})

	t.Run("optional authentication lets anonymous callers through", func(tt *testing.T) {
		var seen *models.User
		h := m.AuthenticateOptional(func(c echo.Context) error {
			seen = UserFromContext(c)
			return nil
		})

		require.NoError(tt, run(h, nil))
		assert.Nil(tt, seen)

		require.NoError(tt, run(h, bearer(viewerToken)))
		require.NotNil(tt, seen)
		assert.Equal(tt, viewer.ID, seen.ID)
	})

	t.Run("tokens of deactivated users are rejected", func(tt *testing.T) {
		_, err := svc.db.NewUpdate().
			Model((*models.User)(nil)).
			Set("is_active = ?", false).
			Where("id = ?", viewer.ID).
			Exec(ctx)
		require.NoError(tt, err)

		err = run(m.Authenticate(ok), bearer(viewerToken))
		assertHTTPCode(tt, err, http.StatusUnauthorized)
	})
}
