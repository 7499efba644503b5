package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_HasAll(t *testing.T) {
	p := NewPrincipal(1, "alice", []string{UserRead, RoleRead})

	assert.True(t, p.HasAll())
	assert.True(t, p.HasAll(UserRead))
	assert.True(t, p.HasAll(UserRead, RoleRead))
	assert.False(t, p.HasAll(UserRead, UserWrite))
	assert.Equal(t, []string{RoleRead, UserRead}, p.Authorities())
}

func TestUser_RoleSetOperations(t *testing.T) {
	u := &User{RoleIDs: []int64{1}}

	u.AddRoles(1, 2, 3)
	assert.Equal(t, []int64{1, 2, 3}, u.RoleIDs)

	u.RemoveRoles(2, 9)
	assert.Equal(t, []int64{1, 3}, u.RoleIDs)
	assert.True(t, u.HasRole(3))
	assert.False(t, u.HasRole(2))
}

func TestErrors_MessagesAndClassification(t *testing.T) {
	err := NotFoundByID(KindRole, 5)
	assert.Equal(t, "Role 5 not found.", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	err = NotFoundByName(KindRole, DefaultRole)
	assert.Equal(t, "Role 'USER' not found.", err.Error())

	err = Duplicate(KindUser, "bob")
	assert.Equal(t, "Username 'bob' already taken.", err.Error())
	assert.ErrorIs(t, err, ErrDuplicateUser)

	err = Duplicate(KindRole, "FOO")
	assert.Equal(t, "Role 'FOO' already exists.", err.Error())
	assert.ErrorIs(t, err, ErrDuplicateRole)

	err = Invalid("Username must not be empty.")
	assert.ErrorIs(t, err, ErrValidation)

	for _, e := range []error{ErrInvalidCredentials, ErrTokenInvalid, ErrTokenExpired} {
		assert.True(t, errors.Is(e, ErrUnauthenticated), e.Error())
	}
	assert.NotErrorIs(t, ErrTokenInvalid, ErrTokenExpired)
}
