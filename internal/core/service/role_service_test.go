package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

func TestRoleService_CreateAssignAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authorities := NewAuthorityService(f.store.Authorities, zerolog.Nop())
	roles := NewRoleService(f.store, zerolog.Nop())
	users := NewUserService(f.store, 0, 0, zerolog.Nop())

	fooRead, err := authorities.Create(ctx, "FOO_READ")
	if err != nil {
		t.Fatalf("create authority: %v", err)
	}
	foo, err := roles.Create(ctx, ports.CreateRoleInput{Name: "FOO", AuthorityIDs: []int64{fooRead.ID, 999}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if len(foo.AuthorityIDs) != 1 || foo.AuthorityIDs[0] != fooRead.ID {
		t.Fatalf("unknown authority ids must be dropped, got %v", foo.AuthorityIDs)
	}

	if _, err := f.auth.Register(ctx, "user_x", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := f.store.Users.FindByUsername(ctx, "user_x")

	got, err := users.SetRoles(ctx, u.ID, []int64{foo.ID})
	if err != nil {
		t.Fatalf("set roles: %v", err)
	}
	if len(got) != 1 || got[0].Name != "FOO" {
		t.Fatalf("unexpected roles: %+v", got)
	}
	if len(got[0].AuthorityIDs) != 1 || got[0].AuthorityIDs[0] != fooRead.ID {
		t.Fatalf("unexpected authorities: %v", got[0].AuthorityIDs)
	}

	p, err := f.identity.AuthenticateBasic(ctx, "user_x", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !p.Has("FOO_READ") {
		t.Fatalf("expected FOO_READ, got %v", p.Authorities())
	}
}

func TestRoleService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	roles := NewRoleService(f.store, zerolog.Nop())

	if _, err := roles.Create(context.Background(), ports.CreateRoleInput{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err := roles.Create(context.Background(), ports.CreateRoleInput{Name: AdminRole})
	if !errors.Is(err, domain.ErrDuplicateRole) {
		t.Fatalf("expected ErrDuplicateRole, got %v", err)
	}
	if err.Error() != "Role 'ADMIN' already exists." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestRoleService_UpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roles := NewRoleService(f.store, zerolog.Nop())

	r, err := roles.Create(ctx, ports.CreateRoleInput{Name: "EDITOR", AuthorityIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "WRITER"
	updated, err := roles.Update(ctx, r.ID, ports.UpdateRoleInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "WRITER" || len(updated.AuthorityIDs) != 2 {
		t.Fatalf("unexpected role: %+v", updated)
	}

	ids := []int64{3}
	updated, err = roles.Update(ctx, r.ID, ports.UpdateRoleInput{AuthorityIDs: &ids})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "WRITER" || len(updated.AuthorityIDs) != 1 || updated.AuthorityIDs[0] != 3 {
		t.Fatalf("unexpected role: %+v", updated)
	}

	taken := domain.DefaultRole
	if _, err := roles.Update(ctx, r.ID, ports.UpdateRoleInput{Name: &taken}); !errors.Is(err, domain.ErrDuplicateRole) {
		t.Fatalf("expected ErrDuplicateRole, got %v", err)
	}
	blank := ""
	if _, err := roles.Update(ctx, r.ID, ports.UpdateRoleInput{Name: &blank}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := roles.Update(ctx, 999, ports.UpdateRoleInput{}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roles := NewRoleService(f.store, zerolog.Nop())

	r, err := roles.Create(ctx, ports.CreateRoleInput{Name: "TEMP"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	admin, _ := f.store.Users.FindByUsername(ctx, "admin")
	admin.AddRoles(r.ID)
	if _, err := f.store.Users.Save(ctx, admin); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := roles.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = roles.Get(ctx, r.ID)
	if !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	want := "Role " + strconv.FormatInt(r.ID, 10) + " not found."
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}

	admin, _ = f.store.Users.FindByUsername(ctx, "admin")
	if admin.HasRole(r.ID) {
		t.Fatalf("deleted role still assigned")
	}
	if err := roles.Delete(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAuthorityService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuthorityService(f.store.Authorities, zerolog.Nop())

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(SeedAuthorities) {
		t.Fatalf("expected %d authorities, got %d", len(SeedAuthorities), len(all))
	}

	if _, err := svc.Create(ctx, domain.UserRead); !errors.Is(err, domain.ErrDuplicateAuthority) {
		t.Fatalf("expected ErrDuplicateAuthority, got %v", err)
	}
	if _, err := svc.Create(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = svc.Get(ctx, 999)
	if err == nil || err.Error() != "Authority 999 not found." {
		t.Fatalf("unexpected error: %v", err)
	}
}

type failingDetachUsers struct {
	ports.UserRepository
}

func (failingDetachUsers) RemoveRole(context.Context, int64) (int64, error) {
	return 0, fmt.Errorf("connection reset")
}

func TestRoleService_DeleteDetachFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := NewRoleService(f.store, zerolog.Nop()).Create(ctx, ports.CreateRoleInput{Name: "TEMP"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	admin, _ := f.store.Users.FindByUsername(ctx, "admin")
	admin.AddRoles(r.ID)
	if _, err := f.store.Users.Save(ctx, admin); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := f.store
	store.Users = failingDetachUsers{UserRepository: f.store.Users}
	err = NewRoleService(store, zerolog.Nop()).Delete(ctx, r.ID)
	if err == nil {
		t.Fatalf("expected detach error")
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("detach failure must not look like a missing role: %v", err)
	}

	if _, err := f.store.Roles.FindByID(ctx, r.ID); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected role to be deleted, got %v", err)
	}

	// the stale id stays on admin but resolves to nothing
	p, err := f.identity.AuthenticateBasic(ctx, "admin", "password")
	if err != nil {
		t.Fatalf("admin no longer resolves: %v", err)
	}
	if !p.HasAll(domain.RoleWrite) {
		t.Fatalf("admin lost authorities: %v", p.Authorities())
	}
}
