package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

func TestUserRepository_SaveAssignsIDsAndEnforcesUniqueUsername(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	alice, err := users.Save(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := users.Save(ctx, &domain.User{Username: "bob", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID)
	assert.Equal(t, int64(2), bob.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	_, err = users.Save(ctx, &domain.User{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	bob.Username = "alice"
	_, err = users.Save(ctx, bob)
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	_, err = users.Save(ctx, &domain.User{ID: 42, Username: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	saved, err := users.Save(ctx, &domain.User{Username: "alice", RoleIDs: []int64{1}})
	require.NoError(t, err)
	saved.RoleIDs[0] = 99
	saved.Username = "mallory"

	got, err := users.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, []int64{1}, got.RoleIDs)
}

func TestUserRepository_LookupsAndDelete(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	u, err := users.Save(ctx, &domain.User{Username: "alice"})
	require.NoError(t, err)

	got, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.FindByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	ok, err := users.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.ExistsByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.FindByID(ctx, u.ID)
	assert.EqualError(t, err, "User 1 not found.")
	assert.ErrorIs(t, users.Delete(ctx, u.ID), domain.ErrNotFound)
}

func TestUserRepository_ListIsOrderedAndPaged(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := users.Save(ctx, &domain.User{Username: name})
		require.NoError(t, err)
	}

	page, err := users.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Username)
	assert.Equal(t, "b", page[1].Username)

	page, err = users.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e", page[0].Username)

	page, err = users.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestUserRepository_RemoveRole(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	a, _ := users.Save(ctx, &domain.User{Username: "a", RoleIDs: []int64{1, 2}})
	b, _ := users.Save(ctx, &domain.User{Username: "b", RoleIDs: []int64{2}})
	_, _ = users.Save(ctx, &domain.User{Username: "c", RoleIDs: []int64{1}})

	n, err := users.RemoveRole(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, _ := users.FindByID(ctx, a.ID)
	assert.Equal(t, []int64{1}, got.RoleIDs)
	got, _ = users.FindByID(ctx, b.ID)
	assert.Empty(t, got.RoleIDs)
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	roles := NewStore().CredentialStore().Roles

	admin, err := roles.Save(ctx, &domain.Role{Name: "ADMIN", AuthorityIDs: []int64{1, 2}})
	require.NoError(t, err)
	user, err := roles.Save(ctx, &domain.Role{Name: "USER"})
	require.NoError(t, err)

	_, err = roles.Save(ctx, &domain.Role{Name: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRole)
	assert.EqualError(t, err, "Role 'ADMIN' already exists.")

	got, err := roles.FindByName(ctx, "USER")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	found, err := roles.FindByIDs(ctx, []int64{user.ID, 77, admin.ID, user.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, admin.ID, found[0].ID)
	assert.Equal(t, user.ID, found[1].ID)

	all, err := roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, roles.Delete(ctx, admin.ID))
	_, err = roles.FindByID(ctx, admin.ID)
	assert.EqualError(t, err, "Role 1 not found.")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestAuthorityRepository(t *testing.T) {
	ctx := context.Background()
	authorities := NewStore().CredentialStore().Authorities

	read, err := authorities.Save(ctx, &domain.Authority{Name: domain.UserRead})
	require.NoError(t, err)
	_, err = authorities.Save(ctx, &domain.Authority{Name: domain.UserRead})
	assert.ErrorIs(t, err, domain.ErrDuplicateAuthority)

	got, err := authorities.FindByName(ctx, domain.UserRead)
	require.NoError(t, err)
	assert.Equal(t, read.ID, got.ID)

	_, err = authorities.FindByID(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrAuthorityNotFound)

	found, err := authorities.FindByIDs(ctx, []int64{9, read.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.UserRead, found[0].Name)
}

func TestStore_ConcurrentSavesKeepUsernamesUnique(t *testing.T) {
	ctx := context.Background()
	users := NewStore().CredentialStore().Users

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Save(ctx, &domain.User{Username: "race"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrDuplicateUser)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestRegistrationGuard(t *testing.T) {
	ctx := context.Background()
	g := NewRegistrationGuard()

	ok, err := g.Acquire(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.Acquire(ctx, "alice")
	assert.False(t, ok)

	ok, _ = g.Acquire(ctx, "bob")
	assert.True(t, ok)

	require.NoError(t, g.Release(ctx, "alice"))
	ok, _ = g.Acquire(ctx, "alice")
	assert.True(t, ok)
}
