package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"markethub/internal/entity"
	"markethub/internal/repo/persistent"
	"markethub/pkg/filestore"
	"markethub/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userPaymentPrefix = "PAY-"

// AssetUploader is the slice of the file-host client the coordinator needs.
type AssetUploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder filestore.Folder) (string, error)
	UploadAll(ctx context.Context, files []*multipart.FileHeader, folder filestore.Folder) ([]string, error)
}

// OrphanPublisher hands failed dependent cleanups to the operator queue.
type OrphanPublisher interface {
	PublishOrphanTask(task map[string]interface{}) error
}

// ListingFields are the scalar attributes shared by create and update.
type ListingFields struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	AdType      string
	Cadence     string
	// ServicePrice is what the marketplace charged for running the ad;
	// it goes on the Payment record, not the listing.
	ServicePrice float64

	Brand        string
	Model        string
	Year         int
	Mileage      int
	Transmission string
	FuelType     string

	Bedrooms  int
	Bathrooms int
	AreaSqm   float64
	Address   string
	City      string
}

type CreateListingInput struct {
	Type    entity.ListingType
	ActorID string
	IsAdmin bool
	Fields  ListingFields
	Images  []*multipart.FileHeader
	Receipt *multipart.FileHeader
}

type UpdateListingInput struct {
	ID      string
	ActorID string
	IsAdmin bool
	Fields  ListingFields
	Images  []*multipart.FileHeader
	Receipt *multipart.FileHeader

	RemovedImageURLs []string
	ReplaceImages    bool
}

type DeleteResult struct {
	ListingID string
	PaymentID string
	Sweep     entity.SweepReport
}

type ListingUseCase interface {
	CreateListing(ctx context.Context, in CreateListingInput) (*entity.Listing, error)
	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	ListListings(ctx context.Context, listingType entity.ListingType, status string, limit, offset int) ([]*entity.Listing, error)
	// UpdateListing returns the updated listing plus an advisory warning for
	// partial-consistency outcomes that did not fail the update.
	UpdateListing(ctx context.Context, in UpdateListingInput) (*entity.Listing, string, error)
	UpdateListingStatus(ctx context.Context, id, status string) (*entity.Listing, error)
	DeleteListing(ctx context.Context, id, actorID string, isAdmin bool) (*DeleteResult, error)
}

type listingUseCase struct {
	listings    persistent.ListingRepository
	payments    persistent.PaymentRepository
	sweepers    []DependentSweeper
	uploader    AssetUploader
	redisClient *redis.Client
	publisher   OrphanPublisher
	logger      *logger.Logger
}

func NewListingUseCase(
	listings persistent.ListingRepository,
	payments persistent.PaymentRepository,
	sweepers []DependentSweeper,
	uploader AssetUploader,
	redisClient *redis.Client,
	publisher OrphanPublisher,
	log *logger.Logger,
) ListingUseCase {
	return &listingUseCase{
		listings:    listings,
		payments:    payments,
		sweepers:    sweepers,
		uploader:    uploader,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      log,
	}
}

func (uc *listingUseCase) CreateListing(ctx context.Context, in CreateListingInput) (*entity.Listing, error) {
	adType, cadence, err := validateFields(in.Type, in.Fields)
	if err != nil {
		return nil, err
	}

	if !in.IsAdmin && in.ActorID == "" {
		return nil, ErrForbidden
	}

	// Nothing is persisted until every upload has succeeded.
	var imageURLs []string
	if len(in.Images) > 0 {
		urls, err := uc.uploader.UploadAll(ctx, in.Images, filestore.FolderListingImages)
		if err != nil {
			return nil, &UploadError{Partial: urls, Err: err}
		}
		imageURLs = urls
	}

	// Admin listings have no payment record, so there is nowhere to hang a
	// receipt; skip the upload rather than strand the blob on the host.
	var receiptURL string
	if in.Receipt != nil && !in.IsAdmin {
		// A paying user's listing without its receipt is not allowed.
		url, err := uc.uploader.Upload(ctx, in.Receipt, filestore.FolderReceipts)
		if err != nil {
			return nil, &UploadError{Err: err}
		}
		receiptURL = url
	}

	listing := &entity.Listing{
		Type:      in.Type,
		ImageURLs: imageURLs,
		ImageURL:  PrimaryImage(imageURLs),
	}
	applyFields(listing, in.Fields, adType, cadence)

	if in.IsAdmin {
		listing.Status = entity.StatusActive
		listing.Visibility = entity.VisibilityPublic
		listing.PaymentID = entity.AdminPaymentPrefix + uuid.New().String()
		listing.OwnerID = entity.AdminOwnerID
	} else {
		listing.Status = entity.StatusPending
		listing.Visibility = entity.VisibilityPrivate
		listing.PaymentID = userPaymentPrefix + uuid.New().String()
		listing.OwnerID = in.ActorID
	}

	if err := uc.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	if !in.IsAdmin {
		payment := &entity.Payment{
			PaymentID:    listing.PaymentID,
			ProductID:    listing.ID,
			ProductType:  string(listing.Type),
			ServicePrice: in.Fields.ServicePrice,
			ReceiptURL:   receiptURL,
			UploadedAt:   time.Now(),
		}
		if err := uc.payments.Create(ctx, payment); err != nil {
			// The listing is already persisted; this window is accepted and
			// reconciled out-of-band rather than rolled back.
			uc.logger.Error("listing %s persisted but payment record write failed: %v", listing.ID, err)
		}
	}

	uc.cacheListing(listing)
	return listing, nil
}

func (uc *listingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	if cached := uc.cachedListing(id); cached != nil {
		return cached, nil
	}

	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	uc.cacheListing(listing)
	return listing, nil
}

func (uc *listingUseCase) ListListings(ctx context.Context, listingType entity.ListingType, status string, limit, offset int) ([]*entity.Listing, error) {
	var filter entity.ListingStatus
	if status != "" {
		switch entity.ListingStatus(status) {
		case entity.StatusPending, entity.StatusActive, entity.StatusInactive:
			filter = entity.ListingStatus(status)
		default:
			return nil, invalidField("status", "must be Pending, Active or Inactive")
		}
	}
	return uc.listings.List(ctx, listingType, filter, limit, offset)
}

func (uc *listingUseCase) UpdateListing(ctx context.Context, in UpdateListingInput) (*entity.Listing, string, error) {
	listing, err := uc.listings.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", ErrListingNotFound
		}
		return nil, "", err
	}

	// Ownership is checked before any upload so a rejected actor never costs
	// an external call or leaks blobs.
	if !in.IsAdmin && listing.OwnerID != in.ActorID {
		return nil, "", ErrForbidden
	}

	adType, cadence, err := validateFields(listing.Type, in.Fields)
	if err != nil {
		return nil, "", err
	}

	var uploaded []string
	if len(in.Images) > 0 {
		urls, err := uc.uploader.UploadAll(ctx, in.Images, filestore.FolderListingImages)
		if err != nil {
			// Abort: the stored listing stays untouched.
			return nil, "", &UploadError{Partial: urls, Err: err}
		}
		uploaded = urls
	}

	// Receipts only make sense where a payment record exists
	var receiptURL string
	if in.Receipt != nil && !listing.AdminCreated() {
		url, err := uc.uploader.Upload(ctx, in.Receipt, filestore.FolderReceipts)
		if err != nil {
			return nil, "", &UploadError{Err: err}
		}
		receiptURL = url
	}

	final := ReconcileImages(listing.ImageURLs, in.RemovedImageURLs, uploaded, in.ReplaceImages)

	applyFields(listing, in.Fields, adType, cadence)
	listing.ImageURLs = final
	listing.ImageURL = PrimaryImage(final)

	if err := uc.listings.Update(ctx, listing); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", ErrListingNotFound
		}
		return nil, "", fmt.Errorf("failed to update listing: %w", err)
	}

	warning := ""
	if receiptURL != "" {
		if err := uc.payments.UpdateReceiptURL(ctx, listing.PaymentID, receiptURL); err != nil {
			// The receipt is on the host and the listing is updated; only the
			// payment row is stale. Degrade to an advisory, not an error.
			warning = "listing updated, but the payment record could not be refreshed with the new receipt"
			uc.logger.Error("receipt stored for listing %s but payment %s not updated: %v", listing.ID, listing.PaymentID, err)
		}
	}

	uc.cacheListing(listing)
	return listing, warning, nil
}

func (uc *listingUseCase) UpdateListingStatus(ctx context.Context, id, status string) (*entity.Listing, error) {
	// Only the two moderation states are reachable through PATCH.
	var next entity.ListingStatus
	switch entity.ListingStatus(status) {
	case entity.StatusPending:
		next = entity.StatusPending
	case entity.StatusActive:
		next = entity.StatusActive
	default:
		return nil, invalidField("status", "must be Pending or Active")
	}

	listing, err := uc.listings.UpdateStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	uc.cacheListing(listing)
	return listing, nil
}

func (uc *listingUseCase) DeleteListing(ctx context.Context, id, actorID string, isAdmin bool) (*DeleteResult, error) {
	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	if !isAdmin && listing.OwnerID != actorID {
		return nil, ErrForbidden
	}

	// The sweep and the listing delete are issued together. Deleting the
	// listing is the primary guarantee; dependent cleanup is best-effort and
	// never blocks it.
	reportCh := make(chan entity.SweepReport, 1)
	go func() {
		reportCh <- SweepAll(ctx, uc.sweepers, listing.ID, listing.PaymentID)
	}()

	delErr := uc.listings.Delete(ctx, listing.ID)
	report := <-reportCh

	for _, outcome := range report.Failed() {
		uc.logger.Error("dependent cleanup failed for listing %s (%s): %s", listing.ID, outcome.Kind, outcome.Error)
		uc.publishOrphan(listing, outcome)
	}

	if delErr != nil {
		if errors.Is(delErr, persistent.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to delete listing: %w", delErr)
	}

	uc.invalidateListing(listing.ID)

	return &DeleteResult{
		ListingID: listing.ID,
		PaymentID: listing.PaymentID,
		Sweep:     report,
	}, nil
}

func validateFields(listingType entity.ListingType, f ListingFields) (entity.AdvertisementType, entity.PaymentCadence, error) {
	if f.Name == "" {
		return "", "", invalidField("name", "is required")
	}
	if f.Price <= 0 {
		return "", "", invalidField("price", "must be a positive number")
	}

	adType, ok := entity.ParseAdvertisementType(f.AdType)
	if !ok {
		return "", "", invalidField("advertisementType", "must be Sale or Rent")
	}

	var cadence entity.PaymentCadence
	if adType == entity.AdRent {
		cadence, ok = entity.ParsePaymentCadence(f.Cadence)
		if !ok {
			return "", "", invalidField("paymentMethod", "must be a rent cadence (Daily/Weekly/Monthly/Yearly or 1-4)")
		}
	}

	switch listingType {
	case entity.ListingTypeCar:
		if f.Brand == "" {
			return "", "", invalidField("brand", "is required for vehicle listings")
		}
		if f.Year <= 0 {
			return "", "", invalidField("year", "is required for vehicle listings")
		}
	case entity.ListingTypeHouse:
		if f.Address == "" {
			return "", "", invalidField("address", "is required for property listings")
		}
		if f.Bedrooms <= 0 {
			return "", "", invalidField("bedrooms", "is required for property listings")
		}
	}

	return adType, cadence, nil
}

func applyFields(listing *entity.Listing, f ListingFields, adType entity.AdvertisementType, cadence entity.PaymentCadence) {
	listing.Name = f.Name
	listing.Description = f.Description
	listing.Price = f.Price
	listing.Currency = f.Currency
	listing.AdType = adType
	listing.Cadence = cadence

	switch listing.Type {
	case entity.ListingTypeCar:
		listing.Brand = f.Brand
		listing.Model = f.Model
		listing.Year = f.Year
		listing.Mileage = f.Mileage
		listing.Transmission = f.Transmission
		listing.FuelType = f.FuelType
	case entity.ListingTypeHouse:
		listing.Bedrooms = f.Bedrooms
		listing.Bathrooms = f.Bathrooms
		listing.AreaSqm = f.AreaSqm
		listing.Address = f.Address
		listing.City = f.City
	}
}

func (uc *listingUseCase) publishOrphan(listing *entity.Listing, outcome entity.SweepOutcome) {
	if uc.publisher == nil {
		return
	}

	task := map[string]interface{}{
		"listing_id":   listing.ID,
		"listing_type": string(listing.Type),
		"payment_id":   listing.PaymentID,
		"kind":         outcome.Kind,
		"error":        outcome.Error,
	}
	if err := uc.publisher.PublishOrphanTask(task); err != nil {
		uc.logger.Error("failed to enqueue orphan task for listing %s (%s): %v", listing.ID, outcome.Kind, err)
	}
}

func (uc *listingUseCase) cacheListing(listing *entity.Listing) {
	if uc.redisClient == nil {
		return
	}

	data, err := json.Marshal(listing)
	if err != nil {
		return
	}
	uc.redisClient.Set(context.Background(), listingCacheKey(listing.ID), data, 10*time.Minute)
}

func (uc *listingUseCase) cachedListing(id string) *entity.Listing {
	if uc.redisClient == nil {
		return nil
	}

	data, err := uc.redisClient.Get(context.Background(), listingCacheKey(id)).Bytes()
	if err != nil {
		return nil
	}

	var listing entity.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil
	}
	return &listing
}

func (uc *listingUseCase) invalidateListing(id string) {
	if uc.redisClient == nil {
		return
	}
	uc.redisClient.Del(context.Background(), listingCacheKey(id))
}

func listingCacheKey(id string) string {
	return "listing:" + id
}
