package domain

import "time"

// City is one of the six supported cities.
type City string

const (
	CityParis      City = "Paris"
	CityCologne    City = "Cologne"
	CityBrussels   City = "Brussels"
	CityAmsterdam  City = "Amsterdam"
	CityHamburg    City = "Hamburg"
	CityDusseldorf City = "Dusseldorf"
)

// HousingType describes the kind of rental.
type HousingType string

const (
	HousingApartment HousingType = "apartment"
	HousingHouse     HousingType = "house"
	HousingRoom      HousingType = "room"
	HousingHotel     HousingType = "hotel"
)

// Coordinates is a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Offer is a rental listing. AuthorID is the owning identity.
type Offer struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	PublishDate   time.Time   `json:"publishDate"`
	City          City        `json:"city"`
	PreviewImage  string      `json:"previewImage"`
	Images        []string    `json:"images"`
	IsPremium     bool        `json:"isPremium"`
	IsFavorite    bool        `json:"isFavorite"`
	Rating        float64     `json:"rating"`
	Type          HousingType `json:"type"`
	Bedrooms      int         `json:"bedrooms"`
	MaxAdults     int         `json:"maxAdults"`
	Price         int         `json:"price"`
	Goods         []string    `json:"goods"`
	AuthorID      string      `json:"authorId"`
	CommentsCount int         `json:"commentsCount"`
	Coordinates   Coordinates `json:"coordinates"`
	Favorites     []string    `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// FavoredBy reports whether userID has the offer in their favorites.
func (o *Offer) FavoredBy(userID string) bool {
	if userID == "" {
		return false
	}
	id := NormalizeID(userID)
	for _, f := range o.Favorites {
		if NormalizeID(f) == id {
			return true
		}
	}
	return false
}

// OfferPatch carries a partial update; nil fields are left untouched.
type OfferPatch struct {
	Title        *string
	Description  *string
	City         *City
	PreviewImage *string
	Images       []string
	IsPremium    *bool
	Type         *HousingType
	Bedrooms     *int
	MaxAdults    *int
	Price        *int
	Goods        []string
	Coordinates  *Coordinates
}
