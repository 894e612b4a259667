package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByOfferID(ctx context.Context, offerID string, limit int) ([]*domain.Comment, error)
	DeleteByOfferID(ctx context.Context, offerID string) error
	// Stats returns the comment count and the average rating rounded to one decimal.
	Stats(ctx context.Context, offerID string) (count int, rating float64, err error)
}
