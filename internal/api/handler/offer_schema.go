package handler

import (
	"strings"

	"github.com/sixcities/rental-api/internal/core/domain"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const (
	cityRule    = "oneof=Paris Cologne Brussels Amsterdam Hamburg Dusseldorf"
	housingRule = "oneof=apartment house room hotel"
)

var allowedGoods = map[string]struct{}{
	"Breakfast":                 {},
	"Air conditioning":          {},
	"Laptop friendly workspace": {},
	"Baby seat":                 {},
	"Washer":                    {},
	"Towels":                    {},
	"Fridge":                    {},
}

type coordinatesRequest struct {
	Latitude  float64 `json:"latitude"  example:"52.370216"`
	Longitude float64 `json:"longitude" example:"4.895168"`
}

type createOfferRequest struct {
	Title        string             `json:"title"        example:"Beautiful & luxurious studio"`
	Description  string             `json:"description"  example:"A quiet cozy and picturesque place near the canal."`
	City         string             `json:"city"         example:"Amsterdam"`
	PreviewImage string             `json:"previewImage" example:"preview.jpg"`
	Images       []string           `json:"images"`
	IsPremium    bool               `json:"isPremium"`
	Type         string             `json:"type"         example:"apartment"`
	Bedrooms     int                `json:"bedrooms"     example:"2"`
	MaxAdults    int                `json:"maxAdults"    example:"4"`
	Price        int                `json:"price"        example:"250"`
	Goods        []string           `json:"goods"`
	Coordinates  coordinatesRequest `json:"coordinates"`
} // @name CreateOfferRequest

func (r *createOfferRequest) validate() error {
	var ch checker
	ch.check("title", strings.TrimSpace(r.Title), "required,min=10,max=100")
	ch.check("description", strings.TrimSpace(r.Description), "required,min=20,max=1024")
	ch.check("city", r.City, "required,"+cityRule)
	ch.check("previewImage", r.PreviewImage, "required")
	ch.check("images", r.Images, "required,min=1")
	ch.checkEach("images", r.Images, "required")
	ch.check("type", r.Type, "required,"+housingRule)
	ch.check("bedrooms", r.Bedrooms, "gte=1,lte=8")
	ch.check("maxAdults", r.MaxAdults, "gte=1,lte=10")
	ch.check("price", r.Price, "gte=100,lte=100000")
	ch.check("goods", r.Goods, "required,min=1")
	checkGoods(&ch, r.Goods)
	ch.check("coordinates.latitude", r.Coordinates.Latitude, "latitude")
	ch.check("coordinates.longitude", r.Coordinates.Longitude, "longitude")
	return ch.result()
}

func (r *createOfferRequest) toInput(authorID string) ports.CreateOfferInput {
	return ports.CreateOfferInput{
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		City:         domain.City(r.City),
		PreviewImage: r.PreviewImage,
		Images:       r.Images,
		IsPremium:    r.IsPremium,
		Type:         domain.HousingType(r.Type),
		Bedrooms:     r.Bedrooms,
		MaxAdults:    r.MaxAdults,
		Price:        r.Price,
		Goods:        r.Goods,
		Coordinates:  domain.Coordinates{Latitude: r.Coordinates.Latitude, Longitude: r.Coordinates.Longitude},
		AuthorID:     authorID,
	}
}

// updateOfferRequest is a partial update; absent fields are left untouched.
type updateOfferRequest struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	City         *string             `json:"city,omitempty"`
	PreviewImage *string             `json:"previewImage,omitempty"`
	Images       []string            `json:"images,omitempty"`
	IsPremium    *bool               `json:"isPremium,omitempty"`
	Type         *string             `json:"type,omitempty"`
	Bedrooms     *int                `json:"bedrooms,omitempty"`
	MaxAdults    *int                `json:"maxAdults,omitempty"`
	Price        *int                `json:"price,omitempty"`
	Goods        []string            `json:"goods,omitempty"`
	Coordinates  *coordinatesRequest `json:"coordinates,omitempty"`
} // @name UpdateOfferRequest

func (r *updateOfferRequest) validate() error {
	var ch checker
	if r.Title != nil {
		ch.check("title", strings.TrimSpace(*r.Title), "required,min=10,max=100")
	}
	if r.Description != nil {
		ch.check("description", strings.TrimSpace(*r.Description), "required,min=20,max=1024")
	}
	if r.City != nil {
		ch.check("city", *r.City, "required,"+cityRule)
	}
	if r.PreviewImage != nil {
		ch.check("previewImage", *r.PreviewImage, "required")
	}
	if r.Images != nil {
		ch.checkEach("images", r.Images, "required")
	}
	if r.Type != nil {
		ch.check("type", *r.Type, "required,"+housingRule)
	}
	if r.Bedrooms != nil {
		ch.check("bedrooms", *r.Bedrooms, "gte=1,lte=8")
	}
	if r.MaxAdults != nil {
		ch.check("maxAdults", *r.MaxAdults, "gte=1,lte=10")
	}
	if r.Price != nil {
		ch.check("price", *r.Price, "gte=100,lte=100000")
	}
	if r.Goods != nil {
		checkGoods(&ch, r.Goods)
	}
	if r.Coordinates != nil {
		ch.check("coordinates.latitude", r.Coordinates.Latitude, "latitude")
		ch.check("coordinates.longitude", r.Coordinates.Longitude, "longitude")
	}
	return ch.result()
}

func (r *updateOfferRequest) toPatch() domain.OfferPatch {
	p := domain.OfferPatch{
		PreviewImage: r.PreviewImage,
		Images:       r.Images,
		IsPremium:    r.IsPremium,
		Bedrooms:     r.Bedrooms,
		MaxAdults:    r.MaxAdults,
		Price:        r.Price,
		Goods:        r.Goods,
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		p.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		p.Description = &d
	}
	if r.City != nil {
		c := domain.City(*r.City)
		p.City = &c
	}
	if r.Type != nil {
		t := domain.HousingType(*r.Type)
		p.Type = &t
	}
	if r.Coordinates != nil {
		p.Coordinates = &domain.Coordinates{Latitude: r.Coordinates.Latitude, Longitude: r.Coordinates.Longitude}
	}
	return p
}

func checkGoods(ch *checker, goods []string) {
	for _, g := range goods {
		if _, ok := allowedGoods[g]; !ok {
			ch.add("goods", "unknown good "+g)
		}
	}
}
