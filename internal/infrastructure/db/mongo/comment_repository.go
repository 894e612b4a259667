package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sixcities/rental-api/internal/core/domain"
)

const commentsCollection = "comments"

var commentIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "offerId", Value: 1}, {Key: "createdAt", Value: -1}}},
}

type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentsCollection)}
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Rating    int                `bson:"rating"`
	AuthorID  string             `bson:"authorId"`
	OfferID   string             `bson:"offerId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *commentDocument) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Rating:    d.Rating,
		AuthorID:  d.AuthorID,
		OfferID:   d.OfferID,
		CreatedAt: d.CreatedAt,
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		Text:      c.Text,
		Rating:    c.Rating,
		AuthorID:  domain.NormalizeID(c.AuthorID),
		OfferID:   domain.NormalizeID(c.OfferID),
		CreatedAt: c.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) FindByOfferID(ctx context.Context, offerID string, limit int) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"offerId": domain.NormalizeID(offerID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []commentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]*domain.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toDomain())
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByOfferID(ctx context.Context, offerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"offerId": domain.NormalizeID(offerID)}); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}

type commentStats struct {
	Count  int     `bson:"count"`
	Rating float64 `bson:"rating"`
}

// Stats aggregates the number of comments and their average rating, rounded
// to one decimal. An offer without comments has zero of both.
func (r *CommentRepository) Stats(ctx context.Context, offerID string) (int, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"offerId": domain.NormalizeID(offerID)}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"rating": bson.M{"$avg": "$rating"},
		}}},
		{{Key: "$project", Value: bson.M{
			"count":  1,
			"rating": bson.M{"$round": bson.A{"$rating", 1}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate comment stats: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, 0, fmt.Errorf("aggregate comment stats: %w", err)
		}
		return 0, 0, nil
	}

	var stats commentStats
	if err := cur.Decode(&stats); err != nil {
		return 0, 0, fmt.Errorf("decode comment stats: %w", err)
	}
	return stats.Count, stats.Rating, nil
}
