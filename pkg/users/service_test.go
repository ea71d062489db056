package users

import (
	"context"
	"net/http"
	"testing"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/joblyhq/jobly/pkg/sqlutil"
	"github.com/joblyhq/jobly/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()

	var e *errcodes.Error
	require.True(t, errors.As(err, &e), "expected an errcodes.Error, got %v", err)
	assert.Equal(t, code, e.HTTPCode)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testutils.NewDB(t))

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "alice",
		Email:    pointerutil.String("alice@example.com"),
		Password: "password",
		Role:     models.RoleViewer,
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleViewer, user.Role.Name)

	t.Run("usernames are unique regardless of case", func(tt *testing.T) {
		_, err := svc.Create(ctx, CreateUserOptions{Username: "ALICE", Password: "password", Role: models.RoleViewer})
		assertHTTPCode(tt, err, http.StatusBadRequest)
	})

	t.Run("emails are unique", func(tt *testing.T) {
		_, err := svc.Create(ctx, CreateUserOptions{
			Username: "bob",
			Email:    pointerutil.String("Alice@Example.com"),
			Password: "password",
			Role:     models.RoleViewer,
		})
		assertHTTPCode(tt, err, http.StatusBadRequest)
	})

	t.Run("roles must exist", func(tt *testing.T) {
		_, err := svc.Create(ctx, CreateUserOptions{Username: "carol", Password: "password", Role: "owner"})
		assertHTTPCode(tt, err, http.StatusBadRequest)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	viewer := testutils.CreateUser(t, db, "viewer", models.RoleViewer)

	t.Run("changes the role", func(tt *testing.T) {
		user, err := svc.Update(ctx, viewer.ID, UpdateOptions{Role: pointerutil.String(models.RoleAdmin)})
		require.NoError(tt, err)
		assert.True(tt, user.IsAdmin())
		assert.True(tt, user.HasPermission(models.ResourceJobs, models.OperationWrite))
		assert.Equal(tt, "viewer@example.com", *user.Email)
	})

	t.Run("changes several fields", func(tt *testing.T) {
		user, err := svc.Update(ctx, viewer.ID, UpdateOptions{
			Email:    pointerutil.String("new@example.com"),
			IsActive: pointerutil.Bool(false),
		})
		require.NoError(tt, err)
		assert.Equal(tt, "new@example.com", *user.Email)
		assert.False(tt, user.IsActive)
	})

	t.Run("rejects an empty update", func(tt *testing.T) {
		_, err := svc.Update(ctx, viewer.ID, UpdateOptions{})
		assert.ErrorIs(tt, err, sqlutil.ErrNothingToUpdate)
	})

	t.Run("fails for unknown users", func(tt *testing.T) {
		_, err := svc.Update(ctx, 999999, UpdateOptions{IsActive: pointerutil.Bool(true)})
		assertHTTPCode(tt, err, http.StatusNotFound)
	})
}

func TestServiceResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	user := testutils.CreateUser(t, db, "viewer", models.RoleViewer)

	ok, err := svc.VerifyPassword(ctx, user.ID, "password")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.ResetPassword(ctx, user.ID, "new-password"))

	ok, err = svc.VerifyPassword(ctx, user.ID, "password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.VerifyPassword(ctx, user.ID, "new-password")
	require.NoError(t, err)
	assert.True(t, ok)

	err = svc.ResetPassword(ctx, 999999, "new-password")
	assertHTTPCode(t, err, http.StatusNotFound)
}

func TestServiceListAndDeactivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testutils.NewDB(t)
	svc := NewService(db)
	first := testutils.CreateUser(t, db, "first", models.RoleAdmin)
	testutils.CreateUser(t, db, "second", models.RoleViewer)
	testutils.CreateUser(t, db, "third", models.RoleViewer)

	users, total, err := svc.List(ctx, ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "second", users[0].Username)
	assert.Equal(t, models.RoleViewer, users[0].Role.Name)

	require.NoError(t, svc.Deactivate(ctx, first.ID))
	user, err := svc.Retrieve(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	err = svc.Deactivate(ctx, 999999)
	assertHTTPCode(t, err, http.StatusNotFound)
}
