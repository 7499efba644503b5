package ports

import (
	"context"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

// UserRepository persists user accounts. Lookups that match nothing return a
// *domain.NotFoundError; saves that violate username uniqueness return a
// *domain.DuplicateError.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// List returns users ordered by id, skipping offset and returning at most limit.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	// Save inserts the user when ID is zero and replaces it otherwise.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// RemoveRole detaches roleID from every user and reports how many changed.
	RemoveRole(ctx context.Context, roleID int64) (int64, error)
}

// RoleRepository persists roles.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// FindByIDs returns the roles that exist among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Role, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Save(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}

// AuthorityRepository persists the authority catalog.
type AuthorityRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Authority, error)
	FindByName(ctx context.Context, name string) (*domain.Authority, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Authority, error)
	List(ctx context.Context) ([]*domain.Authority, error)
	Save(ctx context.Context, authority *domain.Authority) (*domain.Authority, error)
}

// CredentialStore groups the repositories the auth core reads and writes.
type CredentialStore struct {
	Users       UserRepository
	Roles       RoleRepository
	Authorities AuthorityRepository
}

// RegistrationGuard serializes concurrent registrations of the same username.
// Acquire returns false when another registration holds the claim.
type RegistrationGuard interface {
	Acquire(ctx context.Context, username string) (bool, error)
	Release(ctx context.Context, username string) error
}
