package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sixcities/rental-api/internal/core/domain"
)

const offersCollection = "offers"

var offerIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "city", Value: 1}, {Key: "publishDate", Value: -1}}},
	{Keys: bson.D{{Key: "city", Value: 1}, {Key: "isPremium", Value: 1}, {Key: "publishDate", Value: -1}}},
	{Keys: bson.D{{Key: "favorites", Value: 1}}},
}

var newestFirst = bson.D{{Key: "publishDate", Value: -1}}

type OfferRepository struct {
	coll *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{coll: db.Collection(offersCollection)}
}

type coordinatesDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type offerDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description"`
	PublishDate   time.Time           `bson:"publishDate"`
	City          string              `bson:"city"`
	PreviewImage  string              `bson:"previewImage"`
	Images        []string            `bson:"images"`
	IsPremium     bool                `bson:"isPremium"`
	Rating        float64             `bson:"rating"`
	Type          string              `bson:"type"`
	Bedrooms      int                 `bson:"bedrooms"`
	MaxAdults     int                 `bson:"maxAdults"`
	Price         int                 `bson:"price"`
	Goods         []string            `bson:"goods"`
	AuthorID      string              `bson:"authorId"`
	CommentsCount int                 `bson:"commentsCount"`
	Coordinates   coordinatesDocument `bson:"coordinates"`
	Favorites     []string            `bson:"favorites"`
	CreatedAt     time.Time           `bson:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt"`
}

func newOfferDocument(o *domain.Offer) offerDocument {
	favorites := o.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return offerDocument{
		ID:            primitive.NewObjectID(),
		Title:         o.Title,
		Description:   o.Description,
		PublishDate:   o.PublishDate,
		City:          string(o.City),
		PreviewImage:  o.PreviewImage,
		Images:        o.Images,
		IsPremium:     o.IsPremium,
		Rating:        o.Rating,
		Type:          string(o.Type),
		Bedrooms:      o.Bedrooms,
		MaxAdults:     o.MaxAdults,
		Price:         o.Price,
		Goods:         o.Goods,
		AuthorID:      domain.NormalizeID(o.AuthorID),
		CommentsCount: o.CommentsCount,
		Coordinates:   coordinatesDocument{Latitude: o.Coordinates.Latitude, Longitude: o.Coordinates.Longitude},
		Favorites:     favorites,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (d *offerDocument) toDomain() *domain.Offer {
	return &domain.Offer{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		PublishDate:   d.PublishDate,
		City:          domain.City(d.City),
		PreviewImage:  d.PreviewImage,
		Images:        d.Images,
		IsPremium:     d.IsPremium,
		Rating:        d.Rating,
		Type:          domain.HousingType(d.Type),
		Bedrooms:      d.Bedrooms,
		MaxAdults:     d.MaxAdults,
		Price:         d.Price,
		Goods:         d.Goods,
		AuthorID:      d.AuthorID,
		CommentsCount: d.CommentsCount,
		Coordinates:   domain.Coordinates{Latitude: d.Coordinates.Latitude, Longitude: d.Coordinates.Longitude},
		Favorites:     d.Favorites,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newOfferDocument(offer)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert offer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc offerDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) List(ctx context.Context, city domain.City, limit int) ([]*domain.Offer, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = string(city)
	}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *OfferRepository) FindPremium(ctx context.Context, city domain.City, limit int) ([]*domain.Offer, error) {
	filter := bson.M{"city": string(city), "isPremium": true}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *OfferRepository) FindFavorites(ctx context.Context, userID string) ([]*domain.Offer, error) {
	filter := bson.M{"favorites": domain.NormalizeID(userID)}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// Update applies the non-nil fields of patch and returns the updated offer.
func (r *OfferRepository) Update(ctx context.Context, id string, patch domain.OfferPatch) (*domain.Offer, error) {
	set := patchToSet(patch)
	set["updatedAt"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepository) AddFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error) {
	return r.findOneAndUpdate(ctx, offerID, bson.M{"$addToSet": bson.M{"favorites": domain.NormalizeID(userID)}})
}

func (r *OfferRepository) RemoveFavorite(ctx context.Context, offerID, userID string) (*domain.Offer, error) {
	return r.findOneAndUpdate(ctx, offerID, bson.M{"$pull": bson.M{"favorites": domain.NormalizeID(userID)}})
}

func (r *OfferRepository) UpdateStats(ctx context.Context, offerID string, commentsCount int, rating float64) error {
	_, err := r.findOneAndUpdate(ctx, offerID, bson.M{"$set": bson.M{"commentsCount": commentsCount, "rating": rating}})
	return err
}

func (r *OfferRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Offer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOfferNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc offerDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("update offer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find offers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []offerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}

	offers := make([]*domain.Offer, 0, len(docs))
	for i := range docs {
		offers = append(offers, docs[i].toDomain())
	}
	return offers, nil
}

// patchToSet builds a $set document from the non-nil fields of patch.
func patchToSet(p domain.OfferPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.City != nil {
		set["city"] = string(*p.City)
	}
	if p.PreviewImage != nil {
		set["previewImage"] = *p.PreviewImage
	}
	if p.Images != nil {
		set["images"] = p.Images
	}
	if p.IsPremium != nil {
		set["isPremium"] = *p.IsPremium
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Bedrooms != nil {
		set["bedrooms"] = *p.Bedrooms
	}
	if p.MaxAdults != nil {
		set["maxAdults"] = *p.MaxAdults
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Goods != nil {
		set["goods"] = p.Goods
	}
	if p.Coordinates != nil {
		set["coordinates"] = coordinatesDocument{Latitude: p.Coordinates.Latitude, Longitude: p.Coordinates.Longitude}
	}
	return set
}
