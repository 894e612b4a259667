package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// DefaultPasswordCost is the bcrypt work factor used when none is configured.
const DefaultPasswordCost = 10

var ErrInvalidCost = errors.New("invalid password hashing cost")

// PasswordService hashes credentials with bcrypt.
type PasswordService struct {
	cost int
	log  zerolog.Logger
}

// NewPasswordService returns a bcrypt hasher. A zero cost selects
// DefaultPasswordCost; anything outside bcrypt's bounds is rejected.
func NewPasswordService(cost int, log zerolog.Logger) (*PasswordService, error) {
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (allowed %d..%d)", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordService{cost: cost, log: log}, nil
}

// Hash returns a salted digest; hashing the same input twice yields different digests.
func (s *PasswordService) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		return "", fmt.Errorf("%w: %v", domain.ErrHashingFailure, err)
	}
	return string(digest), nil
}

// Verify compares plaintext with digest in constant time.
func (s *PasswordService) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		s.log.Error().Err(err).Msg("failed to verify password")
		return false, fmt.Errorf("%w: %v", domain.ErrHashingFailure, err)
	}
}
