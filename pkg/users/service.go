package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/joblyhq/jobly/pkg/auth"
	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/joblyhq/jobly/pkg/sqlutil"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Field is an updatable column of the users table.
type Field int

const (
	FieldEmail Field = iota
	FieldRoleID
	FieldIsActive
)

func (f Field) Column() string {
	switch f {
	case FieldEmail:
		return "email"
	case FieldRoleID:
		return "role_id"
	case FieldIsActive:
		return "is_active"
	}
	panic(fmt.Sprintf("users: unknown field %d", int(f)))
}

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	Role     string
}

func (s *Service) roleID(ctx context.Context, name string) (int, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Column("id").
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errcodes.ValidationError("Invalid role " + name)
		}
		return 0, errors.WithStack(err)
	}
	return role.ID, nil
}

// Create creates a new user.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	// Check if username already exists
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("LOWER(username) = LOWER(?)", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.BadRequest("Duplicate username: " + opts.Username)
	}

	// Check if email already exists (if provided)
	if opts.Email != nil && *opts.Email != "" {
		exists, err = s.db.NewSelect().
			Model((*models.User)(nil)).
			Where("LOWER(email) = LOWER(?)", *opts.Email).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if exists {
			return nil, errcodes.BadRequest("Duplicate email: " + *opts.Email)
		}
	}

	roleID, err := s.roleID(ctx, opts.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		RoleID:       roleID,
		IsActive:     true,
	}

	_, err = s.db.NewInsert().Model(user).Returning("id").Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Reload with relations
	return s.Retrieve(ctx, user.ID)
}

// Retrieve gets a user by ID, active or not.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a page of users ordered by ID along with the total count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Relation("Role").
		Order("u.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

// UpdateOptions holds the fields to change. Nil fields are left as is.
type UpdateOptions struct {
	Email    *string
	Role     *string
	IsActive *bool
}

// Update applies the given fields to the user and returns the reloaded user.
func (s *Service) Update(ctx context.Context, id int, opts UpdateOptions) (*models.User, error) {
	b := sqlutil.NewBuilder[Field]()
	if opts.Email != nil {
		b.Set(FieldEmail, *opts.Email)
	}
	if opts.Role != nil {
		roleID, err := s.roleID(ctx, *opts.Role)
		if err != nil {
			return nil, err
		}
		b.Set(FieldRoleID, roleID)
	}
	if opts.IsActive != nil {
		b.Set(FieldIsActive, *opts.IsActive)
	}
	sc, err := b.Build()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = %s`, sc.SQL, sc.NextPlaceholder())
	res, err := sqlutil.Exec(ctx, s.db, query, sc.With(id)...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, errcodes.NotFound("User")
	}

	return s.Retrieve(ctx, id)
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errcodes.NotFound("User")
	}

	return nil
}

// VerifyPassword checks if the password is correct for a user.
func (s *Service) VerifyPassword(ctx context.Context, userID int, password string) (bool, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Column("password_hash").
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return auth.CheckPassword(password, user.PasswordHash), nil
}

// Deactivate deactivates a user (soft delete).
func (s *Service) Deactivate(ctx context.Context, userID int) error {
	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errcodes.NotFound("User")
	}
	return nil
}
