package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/ports"
)

type AuthorityHandler struct {
	svc ports.AuthorityService
}

func NewAuthorityHandler(svc ports.AuthorityService) *AuthorityHandler {
	return &AuthorityHandler{svc: svc}
}

// List returns the authority catalog.
//
// @Summary      List authorities
// @Tags         authorities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   authorityResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /authorities [get]
func (h *AuthorityHandler) List(c echo.Context) error {
	as, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorityResponses(as))
}

// Get returns one authority.
//
// @Summary      Get authority
// @Tags         authorities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Authority id"
// @Success      200  {object}  authorityResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /authorities/{id} [get]
func (h *AuthorityHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthorityResponse(a))
}
