package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/ports"
)

type RoleHandler struct {
	svc ports.RoleService
}

func NewRoleHandler(svc ports.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// List returns every role.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(roles))
}

// Get returns one role.
//
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Create adds a role. Unknown authority ids are ignored.
//
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.svc.Create(c.Request().Context(), toCreateRoleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// Update changes a role's name and/or authorities.
//
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Role id"
// @Param        body  body      updateRoleRequest  true  "Fields to change"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	role, err := h.svc.Update(c.Request().Context(), id, toUpdateRoleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete removes a role and detaches it from all users.
//
// @Summary      Delete role
// @Tags         roles
// @Security     BearerAuth
// @Param        id   path  int  true  "Role id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
