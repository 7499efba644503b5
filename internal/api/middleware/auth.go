package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/api/metrics"
	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

const (
	principalKey = "principal"
	schemeKey    = "auth_scheme"

	schemeBearer = "bearer"
	schemeBasic  = "basic"
	schemeNone   = "none"
)

// Authenticate resolves the request's Bearer or Basic credentials to a
// Principal and stores it on the echo context. Requests without usable
// credentials fail with domain.ErrUnauthenticated.
func Authenticate(identity ports.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, principal, err := authenticate(c, identity)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues(scheme, metrics.DecisionUnauthenticated).Inc()
				return err
			}

			c.Set(principalKey, principal)
			c.Set(schemeKey, scheme)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, identity ports.IdentityService) (string, *domain.Principal, error) {
	req := c.Request()
	header := req.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return schemeNone, nil, domain.ErrUnauthenticated
	}

	kind, credentials, _ := strings.Cut(header, " ")
	switch {
	case strings.EqualFold(kind, "bearer"):
		token := strings.TrimSpace(credentials)
		if token == "" {
			return schemeBearer, nil, domain.ErrUnauthenticated
		}
		p, err := identity.AuthenticateBearer(req.Context(), token)
		return schemeBearer, p, err

	case strings.EqualFold(kind, "basic"):
		username, password, ok := req.BasicAuth()
		if !ok {
			return schemeBasic, nil, domain.ErrUnauthenticated
		}
		p, err := identity.AuthenticateBasic(req.Context(), username, password)
		return schemeBasic, p, err
	}
	return schemeNone, nil, domain.ErrUnauthenticated
}

// PrincipalFrom returns the Principal stored by Authenticate.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

func schemeFrom(c echo.Context) string {
	if s, ok := c.Get(schemeKey).(string); ok {
		return s
	}
	return schemeNone
}
