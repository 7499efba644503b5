package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	guard  ports.RegistrationGuard
	now    ports.Clock
	log    zerolog.Logger
	decoy  *decoyDigest
}

// NewAuthService wires the Authenticator. guard may be nil, in which case
// the store's uniqueness constraint is the only protection against racing
// registrations. A nil clock means time.Now.
func NewAuthService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	guard ports.RegistrationGuard,
	clock ports.Clock,
	log zerolog.Logger,
) *AuthService {
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		store:  store,
		hasher: hasher,
		codec:  codec,
		guard:  guard,
		now:    clock,
		log:    log,
		decoy:  &decoyDigest{},
	}
}

// decoyDigest is verified against when the username is unknown, so that
// both failure paths cost one bcrypt comparison.
type decoyDigest struct {
	once   sync.Once
	digest string
}

func (d *decoyDigest) verify(ctx context.Context, hasher ports.PasswordHasher, password string) {
	d.once.Do(func() {
		digest, err := hasher.Hash(context.WithoutCancel(ctx), "decoy-password")
		if err == nil {
			d.digest = digest
		}
	})
	if d.digest == "" {
		return
	}
	_, _ = hasher.Verify(ctx, password, d.digest)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.decoy.verify(ctx, s.hasher, password)
			s.log.Info().Str("username", username).Msg("login failed: unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Info().Str("username", username).Msg("login failed: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	return s.codec.Issue(user.Username, s.now())
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.Token, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.Invalid("Username must not be empty.")
	}
	if strings.TrimSpace(password) == "" {
		return nil, domain.Invalid("Password must not be empty.")
	}

	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx, username)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, domain.Duplicate(domain.KindUser, username)
		}
		defer func() {
			// release on a fresh context so a cancelled request still frees the claim
			if err := s.guard.Release(context.WithoutCancel(ctx), username); err != nil {
				s.log.Warn().Err(err).Str("username", username).Msg("registration claim not released")
			}
		}()
	}

	exists, err := s.store.Users.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Duplicate(domain.KindUser, username)
	}

	role, err := s.store.Roles.FindByName(ctx, domain.DefaultRole)
	if err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.Save(ctx, &domain.User{
		Username:     username,
		PasswordHash: digest,
		RoleIDs:      []int64{role.ID},
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return s.Login(ctx, username, password)
}
