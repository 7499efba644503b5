package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/idenning2003/fullstack/internal/api/metrics"
	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  authenticationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /authenticate/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	start := time.Now()
	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	observe("login", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthenticationResponse(token))
}

// Register creates a USER account and returns a bearer token for it.
//
// @Summary      Register a new user
// @Tags         authentication
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "New account credentials"
// @Success      200   {object}  authenticationResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /authenticate/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	start := time.Now()
	token, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	observe("register", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthenticationResponse(token))
}

func observe(operation string, start time.Time, err error) {
	metrics.AuthDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		result = "invalid"
	case errors.Is(err, domain.ErrDuplicateUser):
		result = "duplicate"
	case errors.Is(err, domain.ErrUnauthenticated):
		result = "unauthorized"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
