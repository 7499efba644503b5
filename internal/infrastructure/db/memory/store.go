// Package memory is an in-process Credential Store. It enforces the same
// uniqueness rules as the Mongo store and is used by tests and by
// STORE_DRIVER=memory deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// Store holds users, roles and authorities behind a single lock.
type Store struct {
	mu          sync.RWMutex
	seq         map[string]int64
	users       map[int64]*domain.User
	roles       map[int64]*domain.Role
	authorities map[int64]*domain.Authority
}

func NewStore() *Store {
	return &Store{
		seq:         make(map[string]int64),
		users:       make(map[int64]*domain.User),
		roles:       make(map[int64]*domain.Role),
		authorities: make(map[int64]*domain.Authority),
	}
}

// CredentialStore exposes the store through the repository ports.
func (s *Store) CredentialStore() ports.CredentialStore {
	return ports.CredentialStore{
		Users:       &UserRepository{s: s},
		Roles:       &RoleRepository{s: s},
		Authorities: &AuthorityRepository{s: s},
	}
}

func (s *Store) next(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.RoleIDs = append([]int64(nil), u.RoleIDs...)
	return &c
}

func cloneRole(r *domain.Role) *domain.Role {
	c := *r
	c.AuthorityIDs = append([]int64(nil), r.AuthorityIDs...)
	return &c
}

func cloneAuthority(a *domain.Authority) *domain.Authority {
	c := *a
	return &c
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type UserRepository struct {
	s *Store
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFoundByID(domain.KindUser, id)
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u := r.byUsername(username); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.NotFoundByName(domain.KindUser, username)
}

func (r *UserRepository) Exists(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byUsername(username) != nil, nil
}

func (r *UserRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *UserRepository) List(_ context.Context, offset, limit int) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]int64, 0, len(r.s.users))
	for id := range r.s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []*domain.User{}, nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*domain.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cloneUser(r.s.users[id]))
	}
	return out, nil
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if other := r.byUsername(user.Username); other != nil && other.ID != user.ID {
		return nil, domain.Duplicate(domain.KindUser, user.Username)
	}

	saved := cloneUser(user)
	now := time.Now().UTC()
	if saved.ID == 0 {
		saved.ID = r.s.next(domain.KindUser)
		saved.CreatedAt = now
	} else if _, ok := r.s.users[saved.ID]; !ok {
		return nil, domain.NotFoundByID(domain.KindUser, saved.ID)
	}
	saved.UpdatedAt = now

	r.s.users[saved.ID] = saved
	return cloneUser(saved), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.NotFoundByID(domain.KindUser, id)
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) RemoveRole(_ context.Context, roleID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int64
	for _, u := range r.s.users {
		if u.HasRole(roleID) {
			u.RemoveRoles(roleID)
			changed++
		}
	}
	return changed, nil
}

// byUsername must be called with the lock held.
func (r *UserRepository) byUsername(username string) *domain.User {
	for _, u := range r.s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

type RoleRepository struct {
	s *Store
}

func (r *RoleRepository) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok {
		return nil, domain.NotFoundByID(domain.KindRole, id)
	}
	return cloneRole(role), nil
}

func (r *RoleRepository) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if role := r.byName(name); role != nil {
		return cloneRole(role), nil
	}
	return nil, domain.NotFoundByName(domain.KindRole, name)
}

func (r *RoleRepository) FindByIDs(_ context.Context, ids []int64) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Role, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if role, ok := r.s.roles[id]; ok {
			out = append(out, cloneRole(role))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) Exists(_ context.Context, name string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byName(name) != nil, nil
}

func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, cloneRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) Save(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if other := r.byName(role.Name); other != nil && other.ID != role.ID {
		return nil, domain.Duplicate(domain.KindRole, role.Name)
	}

	saved := cloneRole(role)
	if saved.ID == 0 {
		saved.ID = r.s.next(domain.KindRole)
	} else if _, ok := r.s.roles[saved.ID]; !ok {
		return nil, domain.NotFoundByID(domain.KindRole, saved.ID)
	}

	r.s.roles[saved.ID] = saved
	return cloneRole(saved), nil
}

func (r *RoleRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[id]; !ok {
		return domain.NotFoundByID(domain.KindRole, id)
	}
	delete(r.s.roles, id)
	return nil
}

func (r *RoleRepository) byName(name string) *domain.Role {
	for _, role := range r.s.roles {
		if role.Name == name {
			return role
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Authorities
// ---------------------------------------------------------------------------

type AuthorityRepository struct {
	s *Store
}

func (r *AuthorityRepository) FindByID(_ context.Context, id int64) (*domain.Authority, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.authorities[id]
	if !ok {
		return nil, domain.NotFoundByID(domain.KindAuthority, id)
	}
	return cloneAuthority(a), nil
}

func (r *AuthorityRepository) FindByName(_ context.Context, name string) (*domain.Authority, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.authorities {
		if a.Name == name {
			return cloneAuthority(a), nil
		}
	}
	return nil, domain.NotFoundByName(domain.KindAuthority, name)
}

func (r *AuthorityRepository) FindByIDs(_ context.Context, ids []int64) ([]*domain.Authority, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Authority, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := r.s.authorities[id]; ok {
			out = append(out, cloneAuthority(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AuthorityRepository) List(_ context.Context) ([]*domain.Authority, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Authority, 0, len(r.s.authorities))
	for _, a := range r.s.authorities {
		out = append(out, cloneAuthority(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AuthorityRepository) Save(_ context.Context, authority *domain.Authority) (*domain.Authority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.authorities {
		if a.Name == authority.Name && a.ID != authority.ID {
			return nil, domain.Duplicate(domain.KindAuthority, authority.Name)
		}
	}

	saved := cloneAuthority(authority)
	if saved.ID == 0 {
		saved.ID = r.s.next(domain.KindAuthority)
	} else if _, ok := r.s.authorities[saved.ID]; !ok {
		return nil, domain.NotFoundByID(domain.KindAuthority, saved.ID)
	}

	r.s.authorities[saved.ID] = saved
	return cloneAuthority(saved), nil
}
