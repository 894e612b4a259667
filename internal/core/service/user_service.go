package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

// UserService implements registration, login and profile updates.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewUserService wires the credential store with the password and token
// services. throttle may be nil, in which case logins are never limited.
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens, throttle: throttle, log: log}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewError(domain.KindBadRequest, "name, email and password are required")
	}

	accountType := in.Type
	if accountType == "" {
		accountType = domain.AccountRegular
	}
	if !accountType.Valid() {
		return nil, domain.NewError(domain.KindBadRequest, "invalid account type")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Type:         accountType,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	created.PasswordHash = ""
	return created, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller; a hashing failure is not a
// wrong password and propagates as is.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrLoginLocked
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	user.PasswordHash = ""
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateAvatar(ctx context.Context, id, avatarPath string) (*domain.User, error) {
	if avatarPath == "" {
		return nil, domain.NewError(domain.KindBadRequest, "avatar file is required")
	}
	user, err := s.repo.UpdateAvatar(ctx, id, avatarPath)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("avatar", avatarPath).Msg("avatar updated")
	return user, nil
}

// OwnerOf resolves a user resource to itself; used by the avatar route.
func (s *UserService) OwnerOf(ctx context.Context, id string) (string, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *UserService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
