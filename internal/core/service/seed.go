package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// AdminRole is granted every seeded authority.
const AdminRole = "ADMIN"

// SeedAuthorities is the catalog created at startup.
var SeedAuthorities = []string{
	domain.AuthorityRead,
	domain.UserRead,
	domain.UserWrite,
	domain.RoleRead,
	domain.RoleWrite,
}

// Seeder bootstraps the catalog, the ADMIN and USER roles and the admin
// account. Running it again leaves existing entities untouched.
type Seeder struct {
	store         ports.CredentialStore
	hasher        ports.PasswordHasher
	adminUsername string
	adminPassword string
	log           zerolog.Logger
}

func NewSeeder(store ports.CredentialStore, hasher ports.PasswordHasher, adminUsername, adminPassword string, log zerolog.Logger) *Seeder {
	return &Seeder{
		store:         store,
		hasher:        hasher,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		log:           log,
	}
}

func (s *Seeder) Seed(ctx context.Context) error {
	authorityIDs := make([]int64, 0, len(SeedAuthorities))
	for _, name := range SeedAuthorities {
		a, err := s.authority(ctx, name)
		if err != nil {
			return err
		}
		authorityIDs = append(authorityIDs, a.ID)
	}

	admin, err := s.role(ctx, AdminRole, authorityIDs)
	if err != nil {
		return err
	}
	user, err := s.role(ctx, domain.DefaultRole, nil)
	if err != nil {
		return err
	}

	exists, err := s.store.Users.Exists(ctx, s.adminUsername)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		return nil
	}
	digest, err := s.hasher.Hash(ctx, s.adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	saved, err := s.store.Users.Save(ctx, &domain.User{
		Username:     s.adminUsername,
		PasswordHash: digest,
		RoleIDs:      []int64{admin.ID, user.ID},
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info().Int64("user_id", saved.ID).Str("username", saved.Username).Msg("seeded admin user")
	return nil
}

func (s *Seeder) authority(ctx context.Context, name string) (*domain.Authority, error) {
	a, err := s.store.Authorities.FindByName(ctx, name)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, domain.ErrAuthorityNotFound) {
		return nil, fmt.Errorf("seed authority %s: %w", name, err)
	}

	a, err = s.store.Authorities.Save(ctx, &domain.Authority{Name: name})
	if err != nil {
		return nil, fmt.Errorf("seed authority %s: %w", name, err)
	}
	s.log.Info().Str("authority", name).Msg("seeded authority")
	return a, nil
}

func (s *Seeder) role(ctx context.Context, name string, authorityIDs []int64) (*domain.Role, error) {
	r, err := s.store.Roles.FindByName(ctx, name)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("seed role %s: %w", name, err)
	}

	r, err = s.store.Roles.Save(ctx, &domain.Role{Name: name, AuthorityIDs: authorityIDs})
	if err != nil {
		return nil, fmt.Errorf("seed role %s: %w", name, err)
	}
	s.log.Info().Str("role", name).Msg("seeded role")
	return r, nil
}
