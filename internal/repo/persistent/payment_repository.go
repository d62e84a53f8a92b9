package persistent

import (
	"context"
	"time"

	"markethub/internal/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	UpdateReceiptURL(ctx context.Context, paymentID, receiptURL string) error
	// DeleteByListing removes every payment row referencing the listing,
	// matched by either foreign key copy.
	DeleteByListing(ctx context.Context, listingID, paymentID string) (int64, error)
}

type paymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &paymentRepository{collection: db.Collection("payments")}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	payment.ID = primitive.NewObjectID().Hex()
	if payment.UploadedAt.IsZero() {
		payment.UploadedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, ToPaymentModel(payment))
	return err
}

func (r *paymentRepository) UpdateReceiptURL(ctx context.Context, paymentID, receiptURL string) error {
	update := bson.M{"$set": bson.M{
		"receiptUrl": receiptURL,
		"uploadedAt": time.Now(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"paymentId": paymentID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paymentRepository) DeleteByListing(ctx context.Context, listingID, paymentID string) (int64, error) {
	filter := bson.M{"$or": []bson.M{
		{"productId": listingID},
		{"paymentId": paymentID},
	}}

	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
