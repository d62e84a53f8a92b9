package persistent

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository owns only the delete side of the notifications
// collection. Notifications reference a listing through either targetId or
// entityId depending on which subsystem wrote them.
type NotificationRepository interface {
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{collection: db.Collection("notifications")}
}

func (r *notificationRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	filter := bson.M{"$or": []bson.M{
		{"targetId": listingID},
		{"entityId": listingID},
	}}

	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
