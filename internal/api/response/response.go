// Package response renders the JSON error envelope shared by handlers,
// middleware and the central error handler.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// ErrorBody is the canonical error envelope for all API errors.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
} // @name ErrorResponse

// Error writes the envelope with the standard status text as the error code.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{Error: http.StatusText(status), Message: message})
}

// WithDetails writes the envelope including structured details.
func WithDetails(c echo.Context, status int, message string, details any) error {
	return c.JSON(status, ErrorBody{Error: http.StatusText(status), Message: message, Details: details})
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindBadRequest:      http.StatusBadRequest,
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusConflict,
	domain.KindTooManyRequests: http.StatusTooManyRequests,
	domain.KindInternal:        http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for an error kind.
func StatusOf(kind domain.ErrorKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

var sentinels = []struct {
	err     error
	kind    domain.ErrorKind
	message string
}{
	{domain.ErrUserNotFound, domain.KindNotFound, "User not found"},
	{domain.ErrUserExists, domain.KindConflict, "User with this email already exists"},
	{domain.ErrInvalidCredentials, domain.KindUnauthenticated, "Invalid email or password"},
	{domain.ErrLoginLocked, domain.KindTooManyRequests, "Too many failed login attempts, try again later"},
	{domain.ErrOfferNotFound, domain.KindNotFound, "Offer not found"},
	{domain.ErrInvalidToken, domain.KindUnauthenticated, "Invalid or expired token"},
	{domain.ErrUnauthenticated, domain.KindUnauthenticated, "Authentication required"},
	{domain.ErrForbidden, domain.KindForbidden, "Access forbidden"},
}

// Resolve classifies err. known is false for errors that must not be shown
// to clients; the caller logs them and answers 500.
func Resolve(err error) (status int, body ErrorBody, known bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		return he.Code, ErrorBody{Error: http.StatusText(he.Code), Message: msg}, true
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		status = StatusOf(de.Kind)
		return status, ErrorBody{Error: de.Kind.String(), Message: de.Message, Details: de.Details}, true
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return StatusOf(s.kind), ErrorBody{Error: s.kind.String(), Message: s.message}, true
		}
	}

	return http.StatusInternalServerError, ErrorBody{
		Error:   domain.KindInternal.String(),
		Message: "Internal Server Error",
	}, false
}
