package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Type     domain.AccountType
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserService covers registration, login and profile updates.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id, avatarPath string) (*domain.User, error)
}
