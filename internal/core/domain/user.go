package domain

import "time"

// DefaultRole is assigned to every self-registered account.
const DefaultRole = "USER"

// User models an account that can authenticate against the API.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Firstname    string    `json:"firstname,omitempty"`
	Lastname     string    `json:"lastname,omitempty"`
	RoleIDs      []int64   `json:"role_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether roleID is assigned to the user.
func (u *User) HasRole(roleID int64) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// AddRoles appends the given role ids, skipping ones already assigned.
func (u *User) AddRoles(ids ...int64) {
	for _, id := range ids {
		if !u.HasRole(id) {
			u.RoleIDs = append(u.RoleIDs, id)
		}
	}
}

// RemoveRoles drops the given role ids. Ids not assigned are ignored.
func (u *User) RemoveRoles(ids ...int64) {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := u.RoleIDs[:0]
	for _, id := range u.RoleIDs {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	u.RoleIDs = kept
}
