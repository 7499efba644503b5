package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

func TestSeeder_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, _ := f.store.Users.FindByUsername(ctx, "admin")

	// a second run with a different password must not touch the admin
	if err := NewSeeder(f.store, f.hasher, "admin", "other", zerolog.Nop()).Seed(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	authorities, _ := f.store.Authorities.List(ctx)
	if len(authorities) != len(SeedAuthorities) {
		t.Fatalf("expected %d authorities, got %d", len(SeedAuthorities), len(authorities))
	}
	roles, _ := f.store.Roles.List(ctx)
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	again, _ := f.store.Users.FindByUsername(ctx, "admin")
	if again.PasswordHash != admin.PasswordHash {
		t.Fatalf("admin was overwritten")
	}
}

func TestSeeder_Roles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	adminRole, err := f.store.Roles.FindByName(ctx, AdminRole)
	if err != nil {
		t.Fatalf("ADMIN role missing: %v", err)
	}
	if len(adminRole.AuthorityIDs) != len(SeedAuthorities) {
		t.Fatalf("ADMIN should hold every authority, got %v", adminRole.AuthorityIDs)
	}
	userRole, err := f.store.Roles.FindByName(ctx, domain.DefaultRole)
	if err != nil {
		t.Fatalf("USER role missing: %v", err)
	}
	if len(userRole.AuthorityIDs) != 0 {
		t.Fatalf("USER should hold no authorities, got %v", userRole.AuthorityIDs)
	}

	admin, _ := f.store.Users.FindByUsername(ctx, "admin")
	if !admin.HasRole(adminRole.ID) || !admin.HasRole(userRole.ID) {
		t.Fatalf("admin should hold ADMIN and USER, got %v", admin.RoleIDs)
	}
}
