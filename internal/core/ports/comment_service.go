package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// CreateCommentInput carries a new comment. AuthorID comes from the identity.
type CreateCommentInput struct {
	Text     string
	Rating   int
	AuthorID string
	OfferID  string
}

// CommentService defines use-case operations for comments.
type CommentService interface {
	Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error)
	ListByOffer(ctx context.Context, offerID string, limit int) ([]*domain.Comment, error)
}

// OfferStatsUpdater recomputes the denormalised comment count and rating of an offer.
type OfferStatsUpdater interface {
	RecalculateStats(ctx context.Context, offerID string) error
}

// StatsEnqueuer schedules an asynchronous stats recalculation.
type StatsEnqueuer interface {
	Enqueue(offerID string)
}
