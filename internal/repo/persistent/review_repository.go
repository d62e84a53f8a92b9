package persistent

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewRepository owns only the delete side of the reviews collection; the
// write schema belongs to the review subsystem.
type ReviewRepository interface {
	DeleteByProduct(ctx context.Context, listingID string) (int64, error)
}

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{collection: db.Collection("reviews")}
}

func (r *reviewRepository) DeleteByProduct(ctx context.Context, listingID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"productId": listingID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
