package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const (
	defaultOfferLimit = 60
	maxOfferLimit     = 200
	premiumLimit      = 3
)

// OfferService implements offer use cases and recomputes offer statistics.
type OfferService struct {
	offers   ports.OfferRepository
	comments ports.CommentRepository
	log      zerolog.Logger
}

func NewOfferService(offers ports.OfferRepository, comments ports.CommentRepository, log zerolog.Logger) *OfferService {
	return &OfferService{offers: offers, comments: comments, log: log}
}

func (s *OfferService) Create(ctx context.Context, in ports.CreateOfferInput) (*domain.Offer, error) {
	if in.AuthorID == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := time.Now().UTC()
	offer, err := s.offers.Create(ctx, &domain.Offer{
		Title:        in.Title,
		Description:  in.Description,
		PublishDate:  now,
		City:         in.City,
		PreviewImage: in.PreviewImage,
		Images:       in.Images,
		IsPremium:    in.IsPremium,
		Type:         in.Type,
		Bedrooms:     in.Bedrooms,
		MaxAdults:    in.MaxAdults,
		Price:        in.Price,
		Goods:        in.Goods,
		AuthorID:     in.AuthorID,
		Coordinates:  in.Coordinates,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create offer")
		return nil, err
	}

	s.log.Info().Str("offer_id", offer.ID).Str("author_id", in.AuthorID).Str("city", string(in.City)).Msg("offer created")
	return offer, nil
}

// Get returns a single offer with the favorite flag computed for viewerID.
func (s *OfferService) Get(ctx context.Context, id, viewerID string) (*domain.Offer, error) {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	offer.IsFavorite = offer.FavoredBy(viewerID)
	return offer, nil
}

func (s *OfferService) List(ctx context.Context, in ports.ListOffersInput) ([]*domain.Offer, error) {
	offers, err := s.offers.List(ctx, in.City, clampLimit(in.Limit, defaultOfferLimit, maxOfferLimit))
	if err != nil {
		return nil, err
	}
	return markFavorites(offers, in.ViewerID), nil
}

// Premium returns up to three premium offers of a city, newest first.
func (s *OfferService) Premium(ctx context.Context, city domain.City, viewerID string) ([]*domain.Offer, error) {
	if city == "" {
		return nil, domain.NewError(domain.KindBadRequest, "City parameter is required")
	}
	offers, err := s.offers.FindPremium(ctx, city, premiumLimit)
	if err != nil {
		return nil, err
	}
	return markFavorites(offers, viewerID), nil
}

func (s *OfferService) Update(ctx context.Context, id string, patch domain.OfferPatch) (*domain.Offer, error) {
	offer, err := s.offers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("offer_id", id).Msg("offer updated")
	return offer, nil
}

// Delete removes the offer and then its comments.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	if err := s.offers.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.comments.DeleteByOfferID(ctx, id); err != nil {
		s.log.Error().Err(err).Str("offer_id", id).Msg("failed to delete comments of removed offer")
		return err
	}
	s.log.Info().Str("offer_id", id).Msg("offer deleted")
	return nil
}

func (s *OfferService) Favorites(ctx context.Context, userID string) ([]*domain.Offer, error) {
	offers, err := s.offers.FindFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return markFavorites(offers, userID), nil
}

func (s *OfferService) AddFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error) {
	offer, err := s.offers.AddFavorite(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}
	offer.IsFavorite = true
	return offer, nil
}

func (s *OfferService) RemoveFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error) {
	offer, err := s.offers.RemoveFavorite(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}
	offer.IsFavorite = false
	return offer, nil
}

// OwnerOf returns the author id of an offer, or domain.ErrOfferNotFound.
func (s *OfferService) OwnerOf(ctx context.Context, id string) (string, error) {
	offer, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return offer.AuthorID, nil
}

// RecalculateStats refreshes the denormalised comment count and rating.
func (s *OfferService) RecalculateStats(ctx context.Context, offerID string) error {
	count, rating, err := s.comments.Stats(ctx, offerID)
	if err != nil {
		return err
	}
	if err := s.offers.UpdateStats(ctx, offerID, count, rating); err != nil {
		return err
	}
	s.log.Debug().Str("offer_id", offerID).Int("comments", count).Float64("rating", rating).Msg("offer stats updated")
	return nil
}

func markFavorites(offers []*domain.Offer, viewerID string) []*domain.Offer {
	for _, o := range offers {
		o.IsFavorite = o.FavoredBy(viewerID)
	}
	return offers
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
