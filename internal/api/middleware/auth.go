package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/api/response"
	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const identityKey = "identity"

const bearerScheme = "Bearer"

// Rejection messages of the mandatory gate.
const (
	MsgMissingHeader   = "Authorization header is missing"
	MsgMalformedHeader = "Invalid authorization header format"
	MsgInvalidToken    = "Invalid or expired token"
)

type gateFailure struct {
	reason  string
	message string
}

var (
	failMissing   = &gateFailure{reason: "missing_header", message: MsgMissingHeader}
	failMalformed = &gateFailure{reason: "malformed_header", message: MsgMalformedHeader}
	failInvalid   = &gateFailure{reason: "invalid_token", message: MsgInvalidToken}
)

// Authenticate requires a valid bearer token and attaches the identity to the
// context. Requests without one get 401 and never reach next.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, fail := resolveIdentity(c, verifier)
			if fail != nil {
				metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateRequired, fail.reason).Inc()
				log.Warn().
					Str("reason", fail.reason).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("request rejected by auth gate")
				return response.Error(c, http.StatusUnauthorized, fail.message)
			}

			metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateRequired, "allowed").Inc()
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// AuthenticateOptional attaches the identity when a valid bearer token is
// present. It never rejects; any failure leaves the request anonymous.
func AuthenticateOptional(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, fail := resolveIdentity(c, verifier)
			if fail != nil {
				if fail != failMissing {
					log.Debug().Str("reason", fail.reason).Str("path", c.Path()).Msg("optional auth ignored credentials")
				}
				metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateOptional, "anonymous").Inc()
				return next(c)
			}

			metrics.AuthDecisionsTotal.WithLabelValues(metrics.GateOptional, "allowed").Inc()
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// resolveIdentity walks header presence, header shape and token verification
// in that order and stops at the first failure.
func resolveIdentity(c echo.Context, verifier ports.TokenVerifier) (domain.Identity, *gateFailure) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return domain.Identity{}, failMissing
	}

	token, ok := bearerToken(header)
	if !ok {
		return domain.Identity{}, failMalformed
	}

	payload, err := verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, failInvalid
	}
	return payload.Identity(), nil
}

// bearerToken accepts exactly "Bearer <token>" with a single space.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// Identity returns the authenticated identity, if any.
func Identity(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// ViewerID returns the subject id of the identity, or "" for anonymous requests.
func ViewerID(c echo.Context) string {
	id, _ := Identity(c)
	return id.SubjectID
}
