package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// UserService manages accounts and their role assignments.
type UserService struct {
	store       ports.CredentialStore
	defaultSize int
	maxSize     int
	log         zerolog.Logger
}

// NewUserService creates a UserService. Non-positive sizes fall back to
// DefaultPageSize and MaxPageSize.
func NewUserService(store ports.CredentialStore, defaultSize, maxSize int, log zerolog.Logger) *UserService {
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return &UserService{store: store, defaultSize: defaultSize, maxSize: maxSize, log: log}
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.Users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page ports.PageRequest) ([]*domain.User, error) {
	if page.Page < 0 {
		return nil, domain.Invalid("Page must not be negative.")
	}
	size := page.Size
	switch {
	case size <= 0:
		size = s.defaultSize
	case size > s.maxSize:
		size = s.maxSize
	}
	// past any addressable offset
	if page.Page > math.MaxInt/size {
		return []*domain.User{}, nil
	}
	return s.store.Users.List(ctx, page.Page*size, size)
}

func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, domain.Invalid("Username must not be empty.")
		}
		if name != user.Username {
			taken, err := s.store.Users.Exists(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Duplicate(domain.KindUser, name)
			}
			user.Username = name
		}
	}
	if in.Firstname != nil {
		user.Firstname = *in.Firstname
	}
	if in.Lastname != nil {
		user.Lastname = *in.Lastname
	}

	saved, err := s.store.Users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", saved.ID).Msg("user updated")
	return saved, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) Roles(ctx context.Context, userID int64) ([]*domain.Role, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Roles.FindByIDs(ctx, user.RoleIDs)
}

// SetRoles replaces the user's roles with the known roles among roleIDs.
func (s *UserService) SetRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error) {
	return s.editRoles(ctx, userID, roleIDs, func(u *domain.User, known []int64) {
		u.RoleIDs = known
	})
}

// AddRoles assigns the known roles among roleIDs. Roles already held stay.
func (s *UserService) AddRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error) {
	return s.editRoles(ctx, userID, roleIDs, func(u *domain.User, known []int64) {
		u.AddRoles(known...)
	})
}

// RemoveRoles detaches roleIDs. Roles not held are ignored.
func (s *UserService) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error) {
	return s.editRoles(ctx, userID, roleIDs, func(u *domain.User, known []int64) {
		u.RemoveRoles(known...)
	})
}

func (s *UserService) editRoles(ctx context.Context, userID int64, roleIDs []int64, apply func(*domain.User, []int64)) ([]*domain.Role, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, err := s.store.Roles.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	known := make([]int64, 0, len(roles))
	for _, r := range roles {
		known = append(known, r.ID)
	}

	apply(user, known)
	saved, err := s.store.Users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", saved.ID).Ints64("role_ids", saved.RoleIDs).Msg("user roles changed")
	return s.store.Roles.FindByIDs(ctx, saved.RoleIDs)
}
