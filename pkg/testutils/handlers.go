package testutils

import (
	"context"
	"net/http"

	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db        *bun.DB
	jwtSecret string
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	Role     string  `json:"role" default:"admin" validate:"oneof=admin viewer"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// createUser creates a test user, with the admin role unless another is given,
// and returns a token for it.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	role := &models.Role{}
	err := h.db.NewSelect().
		Model(role).
		Where("name = ?", req.Role).
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
		Role:         role,
	}

	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	token, err := auth.NewService(h.db, h.jwtSecret, 0).GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// deleteAllResponse is the response body for the delete endpoints.
type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes all users from the database.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.db.NewDelete().
		Model((*models.User)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	deleted, _ := result.RowsAffected()

	return c.JSON(http.StatusOK, deleteAllResponse{
		Deleted: int(deleted),
	})
}

// deleteAllData deletes every job and company.
// DELETE /test/data.
func (h *handler) deleteAllData(c echo.Context) error {
	ctx := c.Request().Context()

	var deleted int64
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{(*models.Job)(nil), (*models.Company)(nil)} {
			result, err := tx.NewDelete().
				Model(model).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			n, _ := result.RowsAffected()
			deleted += n
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete data")
	}

	return c.JSON(http.StatusOK, deleteAllResponse{
		Deleted: int(deleted),
	})
}
