package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// RoleService manages roles and keeps user role sets free of deleted roles.
type RoleService struct {
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewRoleService(store ports.CredentialStore, log zerolog.Logger) *RoleService {
	return &RoleService{store: store, log: log}
}

func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.store.Roles.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.store.Roles.FindByID(ctx, id)
}

func (s *RoleService) Create(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("Role name must not be empty.")
	}

	exists, err := s.store.Roles.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Duplicate(domain.KindRole, name)
	}

	authorityIDs, err := s.knownAuthorities(ctx, in.AuthorityIDs)
	if err != nil {
		return nil, err
	}

	role, err := s.store.Roles.Save(ctx, &domain.Role{Name: name, AuthorityIDs: authorityIDs})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, in ports.UpdateRoleInput) (*domain.Role, error) {
	role, err := s.store.Roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("Role name must not be empty.")
		}
		if name != role.Name {
			taken, err := s.store.Roles.Exists(ctx, name)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Duplicate(domain.KindRole, name)
			}
			role.Name = name
		}
	}
	if in.AuthorityIDs != nil {
		role.AuthorityIDs, err = s.knownAuthorities(ctx, *in.AuthorityIDs)
		if err != nil {
			return nil, err
		}
	}

	saved, err := s.store.Roles.Save(ctx, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("role_id", saved.ID).Str("name", saved.Name).Msg("role updated")
	return saved, nil
}

// Delete removes the role, then detaches it from every user holding it.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Roles.Delete(ctx, id); err != nil {
		return err
	}
	detached, err := s.store.Users.RemoveRole(ctx, id)
	if err != nil {
		// role is already gone; principal resolution skips the stale ids
		s.log.Error().Err(err).Int64("role_id", id).Msg("role deleted but still referenced by users")
		return fmt.Errorf("detach role %d from users: %w", id, err)
	}
	s.log.Info().Int64("role_id", id).Int64("users_detached", detached).Msg("role deleted")
	return nil
}

func (s *RoleService) knownAuthorities(ctx context.Context, ids []int64) ([]int64, error) {
	found, err := s.store.Authorities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(found))
	for _, a := range found {
		out = append(out, a.ID)
	}
	return out, nil
}
