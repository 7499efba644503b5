package ports

import (
	"context"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

// UpdateUserInput is a partial profile update. Nil fields are left unchanged.
// Passwords are not updatable through this input.
type UpdateUserInput struct {
	Username  *string
	Firstname *string
	Lastname  *string
}

// PageRequest selects a page of a listing. Page is 0-based; a zero Size
// means the configured default.
type PageRequest struct {
	Page int
	Size int
}

// UserService manages accounts and their role assignments.
type UserService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page PageRequest) ([]*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error

	Roles(ctx context.Context, userID int64) ([]*domain.Role, error)
	SetRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error)
	AddRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error)
	RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error)
}
