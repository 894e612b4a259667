package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// UserRepository is the credential store. FindByEmail returns the stored
// password hash; all other reads may leave it empty.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id, avatarPath string) (*domain.User, error)
}
