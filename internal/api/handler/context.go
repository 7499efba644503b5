package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/api/middleware"
	"github.com/idenning2003/fullstack/internal/core/domain"
)

// principal returns the identity the Authorization Gate resolved for this
// request. Reaching a protected handler without one is a wiring bug, but it
// still fails closed.
func principal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("Invalid %s '%s'.", name, raw)
	}
	return id, nil
}

// bindBody decodes the JSON body only, leaving path and query params alone.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return domain.Invalid("Malformed request body.")
	}
	return nil
}
