package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

type UserHandler struct {
	svc ports.UserService
}

func NewUserHandler(svc ports.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetMe returns the caller's own account.
//
// @Summary      Get my account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateMe changes the caller's own profile. Passwords cannot be changed here.
//
// @Summary      Update my account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return h.update(c, p.UserID)
}

// DeleteMe removes the caller's own account.
//
// @Summary      Delete my account
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns one page of users ordered by id.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "0-based page"
// @Param        size  query     int  false  "page size (default 10, max 100)"
// @Success      200   {array}   userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return domain.Invalid("Page and size must be integers.")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	users, err := h.svc.List(c.Request().Context(), ports.PageRequest{Page: q.Page, Size: q.Size})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Update changes another user's profile.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, id)
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) update(c echo.Context, id int64) error {
	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Update(c.Request().Context(), id, toUpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
