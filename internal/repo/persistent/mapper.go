package persistent

import (
	"markethub/internal/entity"
	"markethub/internal/model"
)

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	return &entity.Listing{
		ID:          m.ID,
		Type:        entity.ListingType(m.ListingType),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Currency:    m.Currency,
		AdType:      entity.AdvertisementType(m.AdType),
		Cadence:     entity.PaymentCadence(m.Cadence),

		Brand:        m.Brand,
		Model:        m.Model,
		Year:         m.Year,
		Mileage:      m.Mileage,
		Transmission: m.Transmission,
		FuelType:     m.FuelType,

		Bedrooms:  m.Bedrooms,
		Bathrooms: m.Bathrooms,
		AreaSqm:   m.AreaSqm,
		Address:   m.Address,
		City:      m.City,

		ImageURLs: m.ImageURLs,
		ImageURL:  m.ImageURL,

		PaymentID:  m.PaymentID,
		Status:     entity.ListingStatus(m.Status),
		Visibility: entity.Visibility(m.Visibility),
		OwnerID:    m.OwnerID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	imageURLs := e.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	return &model.ListingModel{
		ID:          e.ID,
		ListingType: string(e.Type),
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Currency:    e.Currency,
		AdType:      string(e.AdType),
		Cadence:     string(e.Cadence),

		Brand:        e.Brand,
		Model:        e.Model,
		Year:         e.Year,
		Mileage:      e.Mileage,
		Transmission: e.Transmission,
		FuelType:     e.FuelType,

		Bedrooms:  e.Bedrooms,
		Bathrooms: e.Bathrooms,
		AreaSqm:   e.AreaSqm,
		Address:   e.Address,
		City:      e.City,

		ImageURLs: imageURLs,
		ImageURL:  e.ImageURL,

		PaymentID:  e.PaymentID,
		Status:     string(e.Status),
		Visibility: string(e.Visibility),
		OwnerID:    e.OwnerID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToPaymentModel(e *entity.Payment) *model.PaymentModel {
	if e == nil {
		return nil
	}

	return &model.PaymentModel{
		ID:           e.ID,
		PaymentID:    e.PaymentID,
		ProductID:    e.ProductID,
		ProductType:  e.ProductType,
		ServicePrice: e.ServicePrice,
		ReceiptURL:   e.ReceiptURL,
		UploadedAt:   e.UploadedAt,
	}
}
