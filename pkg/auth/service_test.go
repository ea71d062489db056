package auth

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/joblyhq/jobly/pkg/config"
	"github.com/joblyhq/jobly/pkg/database"
	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/migrations"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "auth.db")

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return db
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()

	var e *errcodes.Error
	require.True(t, errors.As(err, &e), "expected an errcodes.Error, got %v", err)
	assert.Equal(t, code, e.HTTPCode)
}

func TestService_Setup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t), "secret", time.Hour)

	admin, err := svc.CreateFirstAdmin(ctx, "admin", nil, "password")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasPermission(models.ResourceJobs, models.OperationWrite))
	assert.True(t, admin.HasPermission(models.ResourceCompanies, models.OperationWrite))

	_, err = svc.CreateFirstAdmin(ctx, "another", nil, "password")
	assertHTTPCode(t, err, http.StatusForbidden)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t), "secret", time.Hour)

	email := "viewer@example.com"
	user, err := svc.Register(ctx, "viewer", &email, "password")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin())
	assert.True(t, user.HasPermission(models.ResourceJobs, models.OperationRead))
	assert.False(t, user.HasPermission(models.ResourceJobs, models.OperationWrite))
	require.NotNil(t, user.Email)
	assert.Equal(t, email, *user.Email)

	_, err = svc.Register(ctx, "viewer", nil, "password")
	assertHTTPCode(t, err, http.StatusBadRequest)
	assert.EqualError(t, err, "Duplicate username: viewer")
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(setupTestDB(t), "secret", time.Hour)

	_, err := svc.Register(ctx, "alice", nil, "password")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "password")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleViewer, user.Role.Name)

	_, err = svc.Authenticate(ctx, "alice", "wrong-password")
	assertHTTPCode(t, err, http.StatusUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody", "password")
	assertHTTPCode(t, err, http.StatusUnauthorized)
}

func TestService_Tokens(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, "secret", time.Hour)
	user := &models.User{ID: 7, Username: "alice", Role: &models.Role{Name: models.RoleAdmin}}

	t.Run("round trips the user", func(tt *testing.T) {
		token, err := svc.GenerateToken(user)
		require.NoError(tt, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(tt, err)
		assert.Equal(tt, 7, claims.UserID)
		assert.Equal(tt, "alice", claims.Username)
		assert.True(tt, claims.IsAdmin)
		assert.NotEmpty(tt, claims.ID)
	})

	t.Run("every token has its own id", func(tt *testing.T) {
		first, err := svc.GenerateToken(user)
		require.NoError(tt, err)
		second, err := svc.GenerateToken(user)
		require.NoError(tt, err)

		c1, err := svc.ValidateToken(first)
		require.NoError(tt, err)
		c2, err := svc.ValidateToken(second)
		require.NoError(tt, err)
		assert.NotEqual(tt, c1.ID, c2.ID)
	})

	t.Run("rejects tokens signed with another secret", func(tt *testing.T) {
		token, err := NewService(nil, "other", time.Hour).GenerateToken(user)
		require.NoError(tt, err)

		_, err = svc.ValidateToken(token)
		assert.Error(tt, err)
	})

	t.Run("rejects expired tokens", func(tt *testing.T) {
		token, err := NewService(nil, "secret", time.Nanosecond).GenerateToken(user)
		require.NoError(tt, err)
		time.Sleep(time.Second)

		_, err = svc.ValidateToken(token)
		assert.Error(tt, err)
	})
}

func TestPasswords(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)
	assert.True(t, CheckPassword("password", hash))
	assert.False(t, CheckPassword("Password", hash))
}
