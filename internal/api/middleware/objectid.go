package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sixcities/rental-api/internal/api/response"
)

// ValidateObjectID rejects requests whose path parameter is not a hex ObjectID.
func ValidateObjectID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Param(param); !primitive.IsValidObjectID(id) {
				return response.Error(c, http.StatusBadRequest, fmt.Sprintf("%s is invalid ObjectID", id))
			}
			return next(c)
		}
	}
}
