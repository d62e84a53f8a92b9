package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"markethub/internal/entity"
	"markethub/internal/repo/persistent"
	"markethub/pkg/filestore"
	"markethub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*entity.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) (*entity.Listing, error) {
	args := m.Called(ctx, id, status)
	if l, ok := args.Get(0).(*entity.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context, listingType entity.ListingType, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(ctx, listingType, status, limit, offset)
	if l, ok := args.Get(0).([]*entity.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateReceiptURL(ctx context.Context, paymentID, receiptURL string) error {
	args := m.Called(ctx, paymentID, receiptURL)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeleteByListing(ctx context.Context, listingID, paymentID string) (int64, error) {
	args := m.Called(ctx, listingID, paymentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) DeleteByProduct(ctx context.Context, listingID string) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder filestore.Folder) (string, error) {
	args := m.Called(ctx, file, folder)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) UploadAll(ctx context.Context, files []*multipart.FileHeader, folder filestore.Folder) ([]string, error) {
	args := m.Called(ctx, files, folder)
	var urls []string
	if v := args.Get(0); v != nil {
		urls = v.([]string)
	}
	return urls, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrphanTask(task map[string]interface{}) error {
	args := m.Called(task)
	return args.Error(0)
}

func newTestUseCase(
	listings persistent.ListingRepository,
	payments persistent.PaymentRepository,
	sweepers []DependentSweeper,
	uploader AssetUploader,
	publisher OrphanPublisher,
) ListingUseCase {
	return NewListingUseCase(listings, payments, sweepers, uploader, nil, publisher, logger.New())
}

func carFields() ListingFields {
	return ListingFields{
		Name:         "Toyota Corolla 2019",
		Description:  "one owner",
		Price:        14500,
		Currency:     "USD",
		AdType:       "Sale",
		ServicePrice: 25,
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2019,
		Mileage:      64000,
	}
}

func houseFields() ListingFields {
	return ListingFields{
		Name:     "Two-bedroom flat",
		Price:    900,
		Currency: "USD",
		AdType:   "Rent",
		Cadence:  "Monthly",
		Address:  "12 Main St",
		City:     "Springfield",
		Bedrooms: 2,
	}
}

func fileHeaders(names ...string) []*multipart.FileHeader {
	files := make([]*multipart.FileHeader, len(names))
	for i, name := range names {
		files[i] = &multipart.FileHeader{Filename: name}
	}
	return files
}

func TestCreateListing_UserFlow(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	images := fileHeaders("front.jpg", "back.jpg")
	receipt := fileHeaders("receipt.pdf")[0]

	uploader.On("UploadAll", mock.Anything, images, filestore.FolderListingImages).
		Return([]string{"https://cdn.example.com/listing-images/a.jpg", "https://cdn.example.com/listing-images/b.jpg"}, nil)
	uploader.On("Upload", mock.Anything, receipt, filestore.FolderReceipts).
		Return("https://cdn.example.com/listing-images/receipts/r.pdf", nil)

	listings.On("Create", mock.Anything, mock.AnythingOfType("*entity.Listing")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Listing).ID = "listing-1"
		}).
		Return(nil)

	var payment *entity.Payment
	payments.On("Create", mock.Anything, mock.AnythingOfType("*entity.Payment")).
		Run(func(args mock.Arguments) {
			payment = args.Get(1).(*entity.Payment)
		}).
		Return(nil)

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	listing, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		ActorID: "user-42",
		Fields:  carFields(),
		Images:  images,
		Receipt: receipt,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPending, listing.Status)
	assert.Equal(t, entity.VisibilityPrivate, listing.Visibility)
	assert.Equal(t, "user-42", listing.OwnerID)
	assert.True(t, strings.HasPrefix(listing.PaymentID, "PAY-"))
	assert.Len(t, listing.ImageURLs, 2)
	assert.Equal(t, listing.ImageURLs[0], listing.ImageURL)

	assert.NotNil(t, payment)
	assert.Equal(t, "listing-1", payment.ProductID)
	assert.Equal(t, listing.PaymentID, payment.PaymentID)
	assert.Equal(t, "car", payment.ProductType)
	assert.Equal(t, 25.0, payment.ServicePrice)
	assert.Equal(t, "https://cdn.example.com/listing-images/receipts/r.pdf", payment.ReceiptURL)

	listings.AssertExpectations(t)
	payments.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

func TestCreateListing_AdminFlow(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	listings.On("Create", mock.Anything, mock.AnythingOfType("*entity.Listing")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Listing).ID = "listing-2"
		}).
		Return(nil)

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	listing, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeHouse,
		IsAdmin: true,
		Fields:  houseFields(),
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusActive, listing.Status)
	assert.Equal(t, entity.VisibilityPublic, listing.Visibility)
	assert.Equal(t, entity.AdminOwnerID, listing.OwnerID)
	assert.True(t, listing.AdminCreated())
	assert.Equal(t, entity.CadenceMonthly, listing.Cadence)

	// Admin listings carry no payment record
	payments.AssertNotCalled(t, "Create")
}

func TestCreateListing_AdminReceiptNotUploaded(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	listings.On("Create", mock.Anything, mock.AnythingOfType("*entity.Listing")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Listing).ID = "listing-9"
		}).
		Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	listing, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		IsAdmin: true,
		Fields:  carFields(),
		Receipt: fileHeaders("receipt.pdf")[0],
	})

	// No payment record exists for admin listings, so the receipt has
	// nowhere to go and must not reach the file host.
	assert.NoError(t, err)
	assert.Equal(t, "listing-9", listing.ID)
	uploader.AssertNotCalled(t, "Upload")
}

func TestCreateListing_UploadFailureAbortsPersist(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	images := fileHeaders("1.jpg", "2.jpg", "3.jpg")
	uploader.On("UploadAll", mock.Anything, images, filestore.FolderListingImages).
		Return([]string{"https://cdn.example.com/listing-images/1.jpg"}, errors.New("failed at item 2/3: file host rejected upload"))

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	_, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		ActorID: "user-42",
		Fields:  carFields(),
		Images:  images,
	})

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
	assert.Len(t, upErr.Partial, 1)
	listings.AssertNotCalled(t, "Create")
	payments.AssertNotCalled(t, "Create")
}

func TestCreateListing_ReceiptUploadFailureIsFatal(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	receipt := fileHeaders("receipt.pdf")[0]
	uploader.On("Upload", mock.Anything, receipt, filestore.FolderReceipts).
		Return("", errors.New("file host rejected upload"))

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	_, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		ActorID: "user-42",
		Fields:  carFields(),
		Receipt: receipt,
	})

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
	listings.AssertNotCalled(t, "Create")
}

func TestCreateListing_PaymentWriteFailureTolerated(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	listings.On("Create", mock.Anything, mock.AnythingOfType("*entity.Listing")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Listing).ID = "listing-3"
		}).
		Return(nil)
	payments.On("Create", mock.Anything, mock.AnythingOfType("*entity.Payment")).
		Return(errors.New("payments store unreachable"))

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	listing, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		ActorID: "user-42",
		Fields:  carFields(),
	})

	// The listing is already durable; a missing payment row is reconciled
	// out-of-band, not rolled back.
	assert.NoError(t, err)
	assert.Equal(t, "listing-3", listing.ID)
	payments.AssertExpectations(t)
}

func TestCreateListing_ValidationRunsBeforeUploads(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	fields := carFields()
	fields.Price = 0

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	_, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeCar,
		ActorID: "user-42",
		Fields:  fields,
		Images:  fileHeaders("1.jpg"),
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "price", vErr.Field)
	uploader.AssertNotCalled(t, "UploadAll")
	listings.AssertNotCalled(t, "Create")
}

func TestCreateListing_RentRequiresCadence(t *testing.T) {
	fields := houseFields()
	fields.Cadence = ""

	uc := newTestUseCase(new(MockListingRepository), new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:    entity.ListingTypeHouse,
		ActorID: "user-42",
		Fields:  fields,
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "paymentMethod", vErr.Field)
}

func TestCreateListing_AnonymousUserRejected(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	_, err := uc.CreateListing(context.Background(), CreateListingInput{
		Type:   entity.ListingTypeCar,
		Fields: carFields(),
	})

	assert.ErrorIs(t, err, ErrForbidden)
	uploader.AssertNotCalled(t, "UploadAll")
	listings.AssertNotCalled(t, "Create")
}

func storedListing() *entity.Listing {
	return &entity.Listing{
		ID:         "listing-1",
		Type:       entity.ListingTypeCar,
		Name:       "Toyota Corolla 2019",
		Price:      14500,
		AdType:     entity.AdSale,
		Brand:      "Toyota",
		Year:       2019,
		ImageURLs:  []string{"https://cdn.example.com/listing-images/a.jpg", "https://cdn.example.com/listing-images/b.jpg"},
		ImageURL:   "https://cdn.example.com/listing-images/a.jpg",
		PaymentID:  "PAY-abc",
		Status:     entity.StatusActive,
		Visibility: entity.VisibilityPublic,
		OwnerID:    "user-42",
	}
}

func TestUpdateListing_NonOwnerRejectedBeforeAnyUpload(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	_, _, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:      "listing-1",
		ActorID: "intruder",
		Fields:  carFields(),
		Images:  fileHeaders("new.jpg"),
	})

	assert.ErrorIs(t, err, ErrForbidden)
	uploader.AssertNotCalled(t, "UploadAll")
	uploader.AssertNotCalled(t, "Upload")
	listings.AssertNotCalled(t, "Update")
}

func TestUpdateListing_AppendKeepsSurvivorsInOrder(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	stored := storedListing()
	listings.On("GetByID", mock.Anything, "listing-1").Return(stored, nil)

	images := fileHeaders("new.jpg")
	uploader.On("UploadAll", mock.Anything, images, filestore.FolderListingImages).
		Return([]string{"https://cdn.example.com/listing-images/new.jpg"}, nil)

	var updated *entity.Listing
	listings.On("Update", mock.Anything, mock.AnythingOfType("*entity.Listing")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*entity.Listing)
		}).
		Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	listing, warning, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:               "listing-1",
		ActorID:          "user-42",
		Fields:           carFields(),
		Images:           images,
		RemovedImageURLs: []string{"https://cdn.example.com/listing-images/a.jpg"},
	})

	assert.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, []string{
		"https://cdn.example.com/listing-images/b.jpg",
		"https://cdn.example.com/listing-images/new.jpg",
	}, listing.ImageURLs)
	assert.Equal(t, "https://cdn.example.com/listing-images/b.jpg", listing.ImageURL)
	assert.Equal(t, updated.ImageURLs, listing.ImageURLs)
}

func TestUpdateListing_ReplaceDiscardsExistingSet(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	images := fileHeaders("only.jpg")
	uploader.On("UploadAll", mock.Anything, images, filestore.FolderListingImages).
		Return([]string{"https://cdn.example.com/listing-images/only.jpg"}, nil)
	listings.On("Update", mock.Anything, mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	listing, _, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:            "listing-1",
		ActorID:       "user-42",
		Fields:        carFields(),
		Images:        images,
		ReplaceImages: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/listing-images/only.jpg"}, listing.ImageURLs)
}

func TestUpdateListing_UploadFailureLeavesStoreUntouched(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	images := fileHeaders("new.jpg")
	uploader.On("UploadAll", mock.Anything, images, filestore.FolderListingImages).
		Return(nil, errors.New("failed at item 1/1: connection refused"))

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	_, _, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:      "listing-1",
		ActorID: "user-42",
		Fields:  carFields(),
		Images:  images,
	})

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
	listings.AssertNotCalled(t, "Update")
}

func TestUpdateListing_StaleReceiptDegradesToWarning(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)
	uploader := new(MockUploader)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	receipt := fileHeaders("receipt.pdf")[0]
	uploader.On("Upload", mock.Anything, receipt, filestore.FolderReceipts).
		Return("https://cdn.example.com/listing-images/receipts/r2.pdf", nil)
	listings.On("Update", mock.Anything, mock.AnythingOfType("*entity.Listing")).Return(nil)
	payments.On("UpdateReceiptURL", mock.Anything, "PAY-abc", "https://cdn.example.com/listing-images/receipts/r2.pdf").
		Return(errors.New("payments store unreachable"))

	uc := newTestUseCase(listings, payments, nil, uploader, nil)
	listing, warning, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:      "listing-1",
		ActorID: "user-42",
		Fields:  carFields(),
		Receipt: receipt,
	})

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.NotEmpty(t, warning)
	payments.AssertExpectations(t)
}

func TestUpdateListing_AdminListingReceiptNotUploaded(t *testing.T) {
	listings := new(MockListingRepository)
	uploader := new(MockUploader)

	adminListing := storedListing()
	adminListing.PaymentID = entity.AdminPaymentPrefix + "xyz"
	adminListing.OwnerID = entity.AdminOwnerID
	listings.On("GetByID", mock.Anything, "listing-1").Return(adminListing, nil)
	listings.On("Update", mock.Anything, mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, uploader, nil)
	_, warning, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:      "listing-1",
		ActorID: entity.AdminOwnerID,
		IsAdmin: true,
		Fields:  carFields(),
		Receipt: fileHeaders("receipt.pdf")[0],
	})

	assert.NoError(t, err)
	assert.Empty(t, warning)
	uploader.AssertNotCalled(t, "Upload")
}

func TestUpdateListing_NotFound(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("GetByID", mock.Anything, "missing").Return(nil, persistent.ErrNotFound)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, _, err := uc.UpdateListing(context.Background(), UpdateListingInput{
		ID:      "missing",
		ActorID: "user-42",
		Fields:  carFields(),
	})

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestUpdateListingStatus_RejectsUnknownState(t *testing.T) {
	listings := new(MockListingRepository)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.UpdateListingStatus(context.Background(), "listing-1", "Archived")

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
	listings.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateListingStatus_Activates(t *testing.T) {
	listings := new(MockListingRepository)

	activated := storedListing()
	activated.Status = entity.StatusActive
	listings.On("UpdateStatus", mock.Anything, "listing-1", entity.StatusActive).Return(activated, nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	listing, err := uc.UpdateListingStatus(context.Background(), "listing-1", "Active")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusActive, listing.Status)
	listings.AssertExpectations(t)
}

func TestUpdateListingStatus_NotFound(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("UpdateStatus", mock.Anything, "missing", entity.StatusPending).Return(nil, persistent.ErrNotFound)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.UpdateListingStatus(context.Background(), "missing", "Pending")

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestDeleteListing_OwnerSweepsAndDeletes(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	listings.On("Delete", mock.Anything, "listing-1").Return(nil)
	payments.On("DeleteByListing", mock.Anything, "listing-1", "PAY-abc").Return(int64(1), nil)

	sweepers := []DependentSweeper{NewPaymentSweeper(payments)}
	uc := newTestUseCase(listings, payments, sweepers, new(MockUploader), nil)

	result, err := uc.DeleteListing(context.Background(), "listing-1", "user-42", false)

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", result.ListingID)
	assert.Equal(t, "PAY-abc", result.PaymentID)
	assert.True(t, result.Sweep.AllClean())
	listings.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestDeleteListing_AdminBypassesOwnership(t *testing.T) {
	listings := new(MockListingRepository)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	listings.On("Delete", mock.Anything, "listing-1").Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	result, err := uc.DeleteListing(context.Background(), "listing-1", "moderator-7", true)

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", result.ListingID)
}

func TestDeleteListing_NonOwnerRejected(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.DeleteListing(context.Background(), "listing-1", "intruder", false)

	assert.ErrorIs(t, err, ErrForbidden)
	listings.AssertNotCalled(t, "Delete")
}

func TestDeleteListing_SweepFailureDoesNotBlockDelete(t *testing.T) {
	listings := new(MockListingRepository)
	publisher := new(MockPublisher)

	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	listings.On("Delete", mock.Anything, "listing-1").Return(nil)

	broken := &fakeSweeper{kind: "reviews", err: errors.New("reviews store unreachable")}
	publisher.On("PublishOrphanTask", mock.MatchedBy(func(task map[string]interface{}) bool {
		return task["listing_id"] == "listing-1" && task["kind"] == "reviews"
	})).Return(nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), []DependentSweeper{broken}, new(MockUploader), publisher)
	result, err := uc.DeleteListing(context.Background(), "listing-1", "user-42", false)

	assert.NoError(t, err)
	assert.Len(t, result.Sweep.Failed(), 1)
	publisher.AssertExpectations(t)
}

func TestDeleteListing_AdminListingSkipsPaymentSweep(t *testing.T) {
	listings := new(MockListingRepository)
	payments := new(MockPaymentRepository)

	adminListing := storedListing()
	adminListing.PaymentID = entity.AdminPaymentPrefix + "xyz"
	adminListing.OwnerID = entity.AdminOwnerID

	listings.On("GetByID", mock.Anything, "listing-1").Return(adminListing, nil)
	listings.On("Delete", mock.Anything, "listing-1").Return(nil)

	sweepers := []DependentSweeper{NewPaymentSweeper(payments)}
	uc := newTestUseCase(listings, payments, sweepers, new(MockUploader), nil)

	result, err := uc.DeleteListing(context.Background(), "listing-1", "", true)

	assert.NoError(t, err)
	assert.True(t, result.Sweep.Outcomes[0].Skipped)
	payments.AssertNotCalled(t, "DeleteByListing")
}

func TestDeleteListing_NotFound(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("GetByID", mock.Anything, "missing").Return(nil, persistent.ErrNotFound)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.DeleteListing(context.Background(), "missing", "user-42", false)

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestGetListing(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("GetByID", mock.Anything, "listing-1").Return(storedListing(), nil)
	listings.On("GetByID", mock.Anything, "missing").Return(nil, persistent.ErrNotFound)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)

	listing, err := uc.GetListing(context.Background(), "listing-1")
	assert.NoError(t, err)
	assert.Equal(t, "listing-1", listing.ID)

	_, err = uc.GetListing(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListListings_RejectsUnknownStatusFilter(t *testing.T) {
	listings := new(MockListingRepository)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	_, err := uc.ListListings(context.Background(), entity.ListingTypeCar, "Archived", 10, 0)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	listings.AssertNotCalled(t, "List")
}

func TestListListings_PassesFilterThrough(t *testing.T) {
	listings := new(MockListingRepository)
	listings.On("List", mock.Anything, entity.ListingTypeHouse, entity.StatusPending, 20, 40).
		Return([]*entity.Listing{storedListing()}, nil)

	uc := newTestUseCase(listings, new(MockPaymentRepository), nil, new(MockUploader), nil)
	result, err := uc.ListListings(context.Background(), entity.ListingTypeHouse, "Pending", 20, 40)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	listings.AssertExpectations(t)
}
