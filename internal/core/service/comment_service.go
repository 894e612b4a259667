package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const (
	defaultCommentLimit = 50
	maxCommentLimit     = 50
)

var errCommentLimit = domain.NewError(domain.KindBadRequest, "Limit must be a number between 1 and 50")

type CommentService struct {
	comments ports.CommentRepository
	offers   ports.OfferRepository
	stats    ports.StatsEnqueuer
	log      zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	offers ports.OfferRepository,
	stats ports.StatsEnqueuer,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{comments: comments, offers: offers, stats: stats, log: log}
}

// Create stores a comment on an existing offer and schedules the offer's
// rating and comment count to be recomputed.
func (s *CommentService) Create(ctx context.Context, in ports.CreateCommentInput) (*domain.Comment, error) {
	if in.AuthorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.offers.FindByID(ctx, in.OfferID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		Text:      in.Text,
		Rating:    in.Rating,
		AuthorID:  in.AuthorID,
		OfferID:   in.OfferID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("offer_id", in.OfferID).Msg("failed to create comment")
		return nil, err
	}

	s.stats.Enqueue(in.OfferID)
	s.log.Info().Str("offer_id", in.OfferID).Str("comment_id", comment.ID).Msg("comment created")
	return comment, nil
}

// ListByOffer returns the newest comments of an offer. Zero means the default
// limit; anything outside 1..50 is rejected rather than clamped.
func (s *CommentService) ListByOffer(ctx context.Context, offerID string, limit int) ([]*domain.Comment, error) {
	if limit == 0 {
		limit = defaultCommentLimit
	}
	if limit < 1 || limit > maxCommentLimit {
		return nil, errCommentLimit
	}
	return s.comments.FindByOfferID(ctx, offerID, limit)
}
