package ports

import (
	"context"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// CreateOfferInput carries the fields of a new offer. AuthorID comes from the
// authenticated identity, never from the request body.
type CreateOfferInput struct {
	Title        string
	Description  string
	City         domain.City
	PreviewImage string
	Images       []string
	IsPremium    bool
	Type         domain.HousingType
	Bedrooms     int
	MaxAdults    int
	Price        int
	Goods        []string
	Coordinates  domain.Coordinates
	AuthorID     string
}

// ListOffersInput filters the offer list. ViewerID is empty for anonymous requests.
type ListOffersInput struct {
	City     domain.City
	Limit    int
	ViewerID string
}

// OfferService defines use-case operations for offers.
type OfferService interface {
	Create(ctx context.Context, input CreateOfferInput) (*domain.Offer, error)
	Get(ctx context.Context, id, viewerID string) (*domain.Offer, error)
	List(ctx context.Context, input ListOffersInput) ([]*domain.Offer, error)
	Premium(ctx context.Context, city domain.City, viewerID string) ([]*domain.Offer, error)
	Update(ctx context.Context, id string, patch domain.OfferPatch) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
	Favorites(ctx context.Context, userID string) ([]*domain.Offer, error)
	AddFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error)
	RemoveFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error)
	OwnerOf(ctx context.Context, id string) (string, error)
}
