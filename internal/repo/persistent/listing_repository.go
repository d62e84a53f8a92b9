package persistent

import (
	"context"
	"errors"
	"time"

	"markethub/internal/entity"
	"markethub/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document id does not resolve.
var ErrNotFound = errors.New("record not found")

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) (*entity.Listing, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, listingType entity.ListingType, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error)
}

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) ListingRepository {
	return &listingRepository{collection: db.Collection("listings")}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	now := time.Now()
	listing.ID = primitive.NewObjectID().Hex()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, ToListingModel(listing))
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var m model.ListingModel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToListingEntity(&m), nil
}

// listingUpdateDocument pairs $set with $unset so a full-field update
// actually clears emptied optional fields. omitempty drops them from the
// marshalled $set document, which would otherwise leave the stored values
// behind (a removed last image kept a stale imageUrl this way).
func listingUpdateDocument(m *model.ListingModel) bson.M {
	unset := bson.M{}
	dropIf := func(key string, emptied bool) {
		if emptied {
			unset[key] = ""
		}
	}

	dropIf("description", m.Description == "")
	dropIf("currency", m.Currency == "")
	dropIf("paymentMethod", m.Cadence == "")
	dropIf("imageUrl", m.ImageURL == "")

	dropIf("brand", m.Brand == "")
	dropIf("model", m.Model == "")
	dropIf("year", m.Year == 0)
	dropIf("mileage", m.Mileage == 0)
	dropIf("transmission", m.Transmission == "")
	dropIf("fuelType", m.FuelType == "")

	dropIf("bedrooms", m.Bedrooms == 0)
	dropIf("bathrooms", m.Bathrooms == 0)
	dropIf("areaSqm", m.AreaSqm == 0)
	dropIf("address", m.Address == "")
	dropIf("city", m.City == "")

	update := bson.M{"$set": m}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	m := ToListingModel(listing)
	m.ID = "" // never rewrite _id

	res, err := r.collection.UpdateByID(ctx, listing.ID, listingUpdateDocument(m))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) (*entity.Listing, error) {
	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now(),
	}}

	var m model.ListingModel
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ToListingEntity(&m), nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *listingRepository) List(ctx context.Context, listingType entity.ListingType, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error) {
	filter := bson.M{"listingType": string(listingType)}
	if status != "" {
		filter["status"] = string(status)
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var models []model.ListingModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}

	listings := make([]*entity.Listing, len(models))
	for i := range models {
		listings[i] = ToListingEntity(&models[i])
	}
	return listings, nil
}
