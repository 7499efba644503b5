package handler

import "time"

// errorResponse documents the error envelope in the swagger docs. The
// api package renders it.
type errorResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// --- Request types ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createRoleRequest struct {
	Name         string  `json:"name"         validate:"required"`
	AuthorityIDs []int64 `json:"authorityIds"`
}

// updateRoleRequest is partial: absent fields stay unchanged.
type updateRoleRequest struct {
	Name         *string  `json:"name"`
	AuthorityIDs *[]int64 `json:"authorityIds"`
}

// updateUserRequest is partial. Passwords cannot be changed here.
type updateUserRequest struct {
	Username  *string `json:"username"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

type listUsersQuery struct {
	Page int `query:"page" validate:"min=0"`
	Size int `query:"size" validate:"min=0"`
}

// --- Response types ---

type authenticationResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	Expires     time.Time `json:"expires"`
}

type authorityResponse struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

type roleResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	AuthorityIDs []int64 `json:"authorityIds"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}
