package roles

import (
	"context"
	"database/sql"

	"github.com/joblyhq/jobly/pkg/errcodes"
	"github.com/joblyhq/jobly/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service reads the seeded roles and their permissions.
type Service struct {
	db *bun.DB
}

// NewService creates a new roles service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// List returns every role with its permissions, ordered by ID.
func (s *Service) List(ctx context.Context) ([]*models.Role, error) {
	roles := []*models.Role{}
	err := s.db.NewSelect().
		Model(&roles).
		Relation("Permissions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("p.resource ASC", "p.operation ASC")
		}).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return roles, nil
}

// Retrieve gets a role by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Relation("Permissions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("p.resource ASC", "p.operation ASC")
		}).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Role")
		}
		return nil, errors.WithStack(err)
	}
	return role, nil
}
