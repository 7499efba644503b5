package ports

import (
	"context"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

// CreateRoleInput carries a new role. Unknown authority ids are ignored.
type CreateRoleInput struct {
	Name         string
	AuthorityIDs []int64
}

// UpdateRoleInput is a partial role update. Nil fields are left unchanged.
type UpdateRoleInput struct {
	Name         *string
	AuthorityIDs *[]int64
}

// RoleService manages roles.
type RoleService interface {
	List(ctx context.Context) ([]*domain.Role, error)
	Get(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, in CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, id int64, in UpdateRoleInput) (*domain.Role, error)
	// Delete removes the role and detaches it from every user.
	Delete(ctx context.Context, id int64) error
}

// AuthorityService exposes the authority catalog.
type AuthorityService interface {
	List(ctx context.Context) ([]*domain.Authority, error)
	Get(ctx context.Context, id int64) (*domain.Authority, error)
	Create(ctx context.Context, name string) (*domain.Authority, error)
}
