package testutils

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/binder"
	"github.com/joblyhq/jobly/pkg/config"
	"github.com/joblyhq/jobly/pkg/database"
	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/migrations"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret signs the tokens handed out by Token.
const JWTSecret = "test-secret"

// NewDB opens a fresh, fully migrated sqlite database in a temp directory.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "jobly.db")

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return db
}

// NewEcho returns an echo instance configured like the real server, minus the
// routes.
func NewEcho(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.JSONSerializer = binder.JSONSerializer{}
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	return e
}

// NewAuthMiddleware returns auth middleware that accepts tokens from Token.
func NewAuthMiddleware(db *bun.DB) *auth.Middleware {
	return auth.NewMiddleware(auth.NewService(db, JWTSecret, time.Hour))
}

// CreateCompany inserts a company. Zero fields are filled from the handle.
func CreateCompany(t *testing.T, db *bun.DB, company *models.Company) *models.Company {
	t.Helper()

	if company.Name == "" {
		company.Name = "Company " + company.Handle
	}
	if company.Description == "" {
		company.Description = "Description of " + company.Handle
	}

	_, err := db.NewInsert().Model(company).Exec(context.Background())
	require.NoError(t, err)
	return company
}

// CreateJob inserts a job. Its company must already exist.
func CreateJob(t *testing.T, db *bun.DB, job *models.Job) *models.Job {
	t.Helper()

	_, err := db.NewInsert().Model(job).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return job
}

// CreateUser inserts an active user with the given role and the password
// "password".
func CreateUser(t *testing.T, db *bun.DB, username, roleName string) *models.User {
	t.Helper()
	ctx := context.Background()

	role := &models.Role{}
	err := db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        pointerutil.String(username + "@example.com"),
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Returning("id").Exec(ctx)
	require.NoError(t, err)

	user.Role = role
	return user
}

// Token returns a signed token for the user.
func Token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.NewService(nil, JWTSecret, time.Hour).GenerateToken(user)
	require.NoError(t, err)
	return token
}
