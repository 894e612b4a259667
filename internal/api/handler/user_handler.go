package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/api/middleware"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  response.ErrorBody
// @Failure      409   {object}  response.ErrorBody
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Type:     domain.AccountType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.ErrorBody
// @Router       /users/login [get]
func (h *UserHandler) Me(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.users.FindByID(c.Request().Context(), id.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout is a no-op acknowledgement; tokens are stateless.
//
// @Summary      Logout
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  response.ErrorBody
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// UploadAvatar stores the avatar saved by the upload middleware on the user.
//
// @Summary      Upload avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "User id"
// @Param        avatar  formData  file    true  "Avatar image (jpeg, png or webp)"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.ErrorBody
// @Failure      401     {object}  response.ErrorBody
// @Failure      403     {object}  response.ErrorBody
// @Failure      404     {object}  response.ErrorBody
// @Router       /users/{id}/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, err := h.users.UpdateAvatar(c.Request().Context(), c.Param("id"), middleware.UploadedFile(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrLoginLocked):
		return "locked"
	default:
		return "error"
	}
}
