package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// IdentityService turns request credentials into a Principal. Every call
// reads the store afresh; nothing is cached between requests.
type IdentityService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	now    ports.Clock
	log    zerolog.Logger
	decoy  *decoyDigest
}

func NewIdentityService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	clock ports.Clock,
	log zerolog.Logger,
) *IdentityService {
	if clock == nil {
		clock = time.Now
	}
	return &IdentityService{store: store, hasher: hasher, codec: codec, now: clock, log: log, decoy: &decoyDigest{}}
}

func (s *IdentityService) AuthenticateBearer(ctx context.Context, token string) (*domain.Principal, error) {
	username, err := s.codec.Verify(token, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// the account was deleted after the token was issued
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return s.principal(ctx, user)
}

func (s *IdentityService) AuthenticateBasic(ctx context.Context, username, password string) (*domain.Principal, error) {
	user, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.decoy.verify(ctx, s.hasher, password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return s.principal(ctx, user)
}

// principal flattens user -> roles -> authorities into a name set. Role and
// authority ids that no longer resolve are skipped.
func (s *IdentityService) principal(ctx context.Context, user *domain.User) (*domain.Principal, error) {
	roles, err := s.store.Roles.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, r := range roles {
		ids = append(ids, r.AuthorityIDs...)
	}
	authorities, err := s.store.Authorities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(authorities))
	for _, a := range authorities {
		names = append(names, a.Name)
	}
	return domain.NewPrincipal(user.ID, user.Username, names), nil
}
