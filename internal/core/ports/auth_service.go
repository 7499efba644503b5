package ports

import (
	"context"
	"time"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

// AuthService issues tokens for existing accounts and provisions new ones.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Token, error)
	Register(ctx context.Context, username, password string) (*domain.Token, error)
}

// IdentityService resolves request credentials to a Principal.
type IdentityService interface {
	AuthenticateBearer(ctx context.Context, token string) (*domain.Principal, error)
	AuthenticateBasic(ctx context.Context, username, password string) (*domain.Principal, error)
}

// TokenCodec signs and verifies stateless bearer tokens. Time is always
// supplied by the caller.
type TokenCodec interface {
	Issue(subject string, now time.Time) (*domain.Token, error)
	// Verify returns the token subject, or domain.ErrTokenInvalid /
	// domain.ErrTokenExpired.
	Verify(token string, now time.Time) (string, error)
}

// PasswordHasher is a one-way salted hash with a verify counterpart.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// Clock returns the current time.
type Clock func() time.Time
