package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// UserRoleHandler serves /users/:id/roles. Request bodies are JSON arrays
// of role ids; ids that match no role are ignored.
type UserRoleHandler struct {
	svc ports.UserService
}

func NewUserRoleHandler(svc ports.UserService) *UserRoleHandler {
	return &UserRoleHandler{svc: svc}
}

// List returns the roles applied to a user.
//
// @Summary      Get user's roles
// @Tags         user roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {array}   roleResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/roles [get]
func (h *UserRoleHandler) List(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roles, err := h.svc.Roles(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(roles))
}

// Set replaces the user's roles.
//
// @Summary      Set user's roles
// @Tags         user roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int      true  "User id"
// @Param        body  body      []int64  true  "Role ids"
// @Success      200   {array}   roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/roles [post]
func (h *UserRoleHandler) Set(c echo.Context) error {
	return h.edit(c, h.svc.SetRoles)
}

// Add applies roles to the user. Roles already applied stay applied.
//
// @Summary      Add user's roles
// @Tags         user roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int      true  "User id"
// @Param        body  body      []int64  true  "Role ids"
// @Success      200   {array}   roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/roles [put]
func (h *UserRoleHandler) Add(c echo.Context) error {
	return h.edit(c, h.svc.AddRoles)
}

// Remove detaches roles from the user.
//
// @Summary      Remove user's roles
// @Tags         user roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int      true  "User id"
// @Param        body  body      []int64  true  "Role ids"
// @Success      200   {array}   roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/roles [delete]
func (h *UserRoleHandler) Remove(c echo.Context) error {
	return h.edit(c, h.svc.RemoveRoles)
}

type roleEdit func(ctx context.Context, userID int64, roleIDs []int64) ([]*domain.Role, error)

func (h *UserRoleHandler) edit(c echo.Context, apply roleEdit) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var roleIDs []int64
	if err := bindBody(c, &roleIDs); err != nil {
		return err
	}

	roles, err := apply(c.Request().Context(), id, roleIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(roles))
}
