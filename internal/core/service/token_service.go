package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// DefaultTokenExpiration is used when no expiration is configured.
const DefaultTokenExpiration = "24h"

var (
	ErrMissingSecret     = errors.New("token signing secret is required")
	ErrInvalidExpiration = errors.New("invalid token expiration")
)

var expirationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiration converts an expiration string of the form <N><unit>,
// unit one of s, m, h, d, into a duration.
func ParseExpiration(s string) (time.Duration, error) {
	m := expirationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q, want <N><s|m|h|d>", ErrInvalidExpiration, s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidExpiration, s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidExpiration, s)
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}
	if n > int64(math.MaxInt64/unit) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidExpiration, s)
	}
	return time.Duration(n) * unit, nil
}

type tokenClaims struct {
	Email string             `json:"email"`
	Type  domain.AccountType `json:"type"`
	jwt.RegisteredClaims
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat, exp and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// TokenService issues and verifies HS256 identity tokens. It holds no state
// besides the secret, the lifetime and the clock, all fixed at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewTokenService validates the secret and the expiration string. Both
// failures are configuration errors and are meant to abort startup.
func NewTokenService(secret, expiresIn string, log zerolog.Logger, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if expiresIn == "" {
		expiresIn = DefaultTokenExpiration
	}
	ttl, err := ParseExpiration(expiresIn)
	if err != nil {
		return nil, err
	}

	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject. exp is iat plus the lifetime, in whole seconds.
func (s *TokenService) Issue(subject domain.Identity) (string, error) {
	if subject.SubjectID == "" {
		return "", errors.New("issue token: empty subject id")
	}

	iat := s.now().Unix()
	exp := iat + int64(s.ttl/time.Second)

	claims := tokenClaims{
		Email: subject.Email,
		Type:  subject.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.SubjectID,
			IssuedAt:  jwt.NewNumericDate(time.Unix(iat, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(exp, 0)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign token")
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Debug().Str("subject", subject.SubjectID).Msg("token issued")
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token. The token is
// rejected when now is at or past exp. Every failure wraps domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (domain.TokenPayload, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.TokenPayload{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return domain.TokenPayload{}, fmt.Errorf("%w: missing required claims", domain.ErrInvalidToken)
	}

	return domain.TokenPayload{
		SubjectID:   claims.Subject,
		Email:       claims.Email,
		AccountType: claims.Type,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
