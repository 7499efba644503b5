package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/api/metrics"
	"github.com/idenning2003/fullstack/internal/core/domain"
)

// Requires admits the request only when the authenticated principal holds
// every listed authority. The denial never names the missing authority.
func Requires(authorities ...string) echo.MiddlewareFunc {
	required := append([]string(nil), authorities...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				metrics.GateDecisionsTotal.WithLabelValues(schemeNone, metrics.DecisionUnauthenticated).Inc()
				return domain.ErrUnauthenticated
			}
			if !p.HasAll(required...) {
				metrics.GateDecisionsTotal.WithLabelValues(schemeFrom(c), metrics.DecisionForbidden).Inc()
				return domain.ErrForbidden
			}

			metrics.GateDecisionsTotal.WithLabelValues(schemeFrom(c), metrics.DecisionAllowed).Inc()
			return next(c)
		}
	}
}
