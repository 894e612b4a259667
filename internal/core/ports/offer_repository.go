package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// OfferRepository defines persistence operations for offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error)
	FindByID(ctx context.Context, id string) (*domain.Offer, error)
	// List returns the newest offers; an empty city means all cities.
	List(ctx context.Context, city domain.City, limit int) ([]*domain.Offer, error)
	FindPremium(ctx context.Context, city domain.City, limit int) ([]*domain.Offer, error)
	FindFavorites(ctx context.Context, userID string) ([]*domain.Offer, error)
	Update(ctx context.Context, id string, patch domain.OfferPatch) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
	AddFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error)
	RemoveFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error)
	UpdateStats(ctx context.Context, offerID string, commentsCount int, rating float64) error
}
