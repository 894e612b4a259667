package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/api/middleware"
	"github.com/sixcities/rental-api/internal/core/domain"
)

var errInvalidBody = domain.NewError(domain.KindBadRequest, "Invalid request body")

// bindBody decodes the JSON body into req and runs its validation.
func bindBody(c echo.Context, req interface{ validate() error }) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return req.validate()
}

// identity returns the authenticated caller or ErrUnauthenticated when the
// route was registered without the auth gate.
func identity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// queryLimit parses the optional limit query parameter. Zero means default.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.NewError(domain.KindBadRequest, "limit must be a positive integer")
	}
	return n, nil
}
