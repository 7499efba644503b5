package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/infrastructure/security"
)

func TestIdentityService_BearerResolvesAuthorities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok, err := f.auth.Login(ctx, "admin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	p, err := f.identity.AuthenticateBearer(ctx, tok.AccessToken)
	if err != nil {
		t.Fatalf("AuthenticateBearer returned error: %v", err)
	}
	if p.Username != "admin" {
		t.Fatalf("unexpected principal: %s", p.Username)
	}
	if !p.HasAll(SeedAuthorities...) {
		t.Fatalf("admin missing authorities, has %v", p.Authorities())
	}
}

func TestIdentityService_RegisteredUserHasNoAuthorities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok, err := f.auth.Register(ctx, "user_x", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	p, err := f.identity.AuthenticateBearer(ctx, tok.AccessToken)
	if err != nil {
		t.Fatalf("AuthenticateBearer returned error: %v", err)
	}
	if p.Has(domain.RoleRead) {
		t.Fatalf("USER role must not grant ROLE_READ")
	}
	if len(p.Authorities()) != 0 {
		t.Fatalf("expected no authorities, got %v", p.Authorities())
	}
}

func TestIdentityService_BearerExpiredAndForeign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok, err := f.auth.Login(ctx, "admin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.now = t0.Add(time.Hour + time.Second)
	if _, err := f.identity.AuthenticateBearer(ctx, tok.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	f.now = t0

	foreign, err := security.NewJWTCodec([]byte("fedcba9876543210fedcba9876543210"), time.Hour).Issue("admin", t0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.identity.AuthenticateBearer(ctx, foreign.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIdentityService_BearerForDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok, err := f.auth.Register(ctx, "ghost", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := f.store.Users.FindByUsername(ctx, "ghost")
	if err := f.store.Users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.identity.AuthenticateBearer(ctx, tok.AccessToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestIdentityService_Basic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.identity.AuthenticateBasic(ctx, "admin", "password")
	if err != nil {
		t.Fatalf("AuthenticateBasic returned error: %v", err)
	}
	if !p.Has(domain.UserWrite) {
		t.Fatalf("expected USER_WRITE, got %v", p.Authorities())
	}

	if _, err := f.identity.AuthenticateBasic(ctx, "admin", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.identity.AuthenticateBasic(ctx, "nobody", "password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentityService_BasicUnknownUserStillComparesPassword(t *testing.T) {
	f := newFixture(t)
	hasher := &countingHasher{BcryptHasher: f.hasher}
	identity := NewIdentityService(f.store, hasher, f.codec, f.clock, zerolog.Nop())

	if _, err := identity.AuthenticateBasic(context.Background(), "nobody", "password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := hasher.verifies.Load(); got != 1 {
		t.Fatalf("expected 1 password comparison, got %d", got)
	}
}

func TestIdentityService_SkipsDanglingRoleIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, "dangling", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := f.store.Users.FindByUsername(ctx, "dangling")
	u.RoleIDs = append(u.RoleIDs, 999)
	if _, err := f.store.Users.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := f.identity.AuthenticateBasic(ctx, "dangling", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
