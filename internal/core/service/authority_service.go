package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// AuthorityService reads the authority catalog. Create is used by seeding
// and tests; the HTTP surface is read-only.
type AuthorityService struct {
	repo ports.AuthorityRepository
	log  zerolog.Logger
}

func NewAuthorityService(repo ports.AuthorityRepository, log zerolog.Logger) *AuthorityService {
	return &AuthorityService{repo: repo, log: log}
}

func (s *AuthorityService) List(ctx context.Context) ([]*domain.Authority, error) {
	return s.repo.List(ctx)
}

func (s *AuthorityService) Get(ctx context.Context, id int64) (*domain.Authority, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthorityService) Create(ctx context.Context, name string) (*domain.Authority, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("Authority must not be empty.")
	}
	a, err := s.repo.Save(ctx, &domain.Authority{Name: name})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("authority_id", a.ID).Str("authority", a.Name).Msg("authority created")
	return a, nil
}
