package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/api/response"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const ownerKey = "resource_owner"

// CheckEntityExists resolves the owner of the resource named by the path
// parameter and stores it for RequireOwner. Absent resources get 404.
func CheckEntityExists(lookup ports.OwnerLookup, param, entity string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Param(param)
			owner, err := lookup.OwnerOf(c.Request().Context(), id)
			if err != nil {
				if domain.KindOf(err) == domain.KindNotFound ||
					errors.Is(err, domain.ErrOfferNotFound) || errors.Is(err, domain.ErrUserNotFound) {
					return response.Error(c, http.StatusNotFound, fmt.Sprintf("%s with id %s not found", entity, id))
				}
				return err
			}
			c.Set(ownerKey, owner)
			return next(c)
		}
	}
}

// RequireOwner lets the request through only when the authenticated identity
// owns the resource resolved by CheckEntityExists.
func RequireOwner(action, entity string, log zerolog.Logger) echo.MiddlewareFunc {
	forbidden := fmt.Sprintf("You can only %s your own %s", action, strings.ToLower(entity))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateOwner, "unauthenticated").Inc()
				return response.Error(c, http.StatusUnauthorized, "Authentication required")
			}

			owner, _ := c.Get(ownerKey).(string)
			if !id.Owns(owner) {
				metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateOwner, "forbidden").Inc()
				log.Warn().
					Str("subject_id", id.SubjectID).
					Str("entity", entity).
					Str("path", c.Path()).
					Msg("ownership check failed")
				return response.Error(c, http.StatusForbidden, forbidden)
			}

			metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateOwner, "allowed").Inc()
			return next(c)
		}
	}
}
