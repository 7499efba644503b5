package domain

// Authority names seeded at startup.
const (
	AuthorityRead = "AUTHORITY_READ"
	UserRead      = "USER_READ"
	UserWrite     = "USER_WRITE"
	RoleRead      = "ROLE_READ"
	RoleWrite     = "ROLE_WRITE"
)

// Authority is an atomic named permission such as USER_READ.
type Authority struct {
	ID   int64  `json:"id"`
	Name string `json:"authority"`
}

// Role is a named bundle of authorities assignable to users.
type Role struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AuthorityIDs []int64 `json:"authority_ids"`
}
