package domain

import (
	"errors"
	"fmt"
)

// Entity kinds used in error messages.
const (
	KindUser      = "User"
	KindRole      = "Role"
	KindAuthority = "Authority"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("entity not found")
	ErrForbidden  = errors.New("Access Denied")

	ErrUserNotFound      = errors.New("user not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrAuthorityNotFound = errors.New("authority not found")

	ErrDuplicateUser      = errors.New("user already exists")
	ErrDuplicateRole      = errors.New("role already exists")
	ErrDuplicateAuthority = errors.New("authority already exists")

	// ErrUnauthenticated is the parent of every credential failure.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrTokenInvalid       = fmt.Errorf("%w: token is invalid", ErrUnauthenticated)
	ErrTokenExpired       = fmt.Errorf("%w: token is expired", ErrUnauthenticated)
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Message string
}

// Invalid returns a ValidationError with the given message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a lookup by id or by name that matched nothing.
type NotFoundError struct {
	Kind string
	Key  string
}

// NotFoundByID builds the error for a failed lookup by id, e.g. "Role 5 not found.".
func NotFoundByID(kind string, id int64) error {
	return &NotFoundError{Kind: kind, Key: fmt.Sprintf("%d", id)}
}

// NotFoundByName builds the error for a failed lookup by name, e.g. "Role 'USER' not found.".
func NotFoundByName(kind, name string) error {
	return &NotFoundError{Kind: kind, Key: "'" + name + "'"}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found.", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() []error {
	switch e.Kind {
	case KindUser:
		return []error{ErrNotFound, ErrUserNotFound}
	case KindRole:
		return []error{ErrNotFound, ErrRoleNotFound}
	case KindAuthority:
		return []error{ErrNotFound, ErrAuthorityNotFound}
	}
	return []error{ErrNotFound}
}

// DuplicateError reports a uniqueness violation on a name.
type DuplicateError struct {
	Kind string
	Name string
}

// Duplicate builds a DuplicateError for the given kind and conflicting name.
func Duplicate(kind, name string) error {
	return &DuplicateError{Kind: kind, Name: name}
}

func (e *DuplicateError) Error() string {
	if e.Kind == KindUser {
		return fmt.Sprintf("Username '%s' already taken.", e.Name)
	}
	return fmt.Sprintf("%s '%s' already exists.", e.Kind, e.Name)
}

func (e *DuplicateError) Unwrap() error {
	switch e.Kind {
	case KindUser:
		return ErrDuplicateUser
	case KindRole:
		return ErrDuplicateRole
	}
	return ErrDuplicateAuthority
}
