package entity

import (
	"strings"
	"time"
)

type ListingType string

const (
	ListingTypeCar   ListingType = "car"
	ListingTypeHouse ListingType = "house"
)

type AdvertisementType string

const (
	AdSale AdvertisementType = "Sale"
	AdRent AdvertisementType = "Rent"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "Pending"
	StatusActive   ListingStatus = "Active"
	StatusInactive ListingStatus = "Inactive"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "Private"
	VisibilityPublic  Visibility = "Public"
)

// PaymentCadence is the rent billing cadence. Older clients send it as a
// numeric code, newer ones as a name; ParsePaymentCadence accepts both.
type PaymentCadence string

const (
	CadenceDaily   PaymentCadence = "Daily"
	CadenceWeekly  PaymentCadence = "Weekly"
	CadenceMonthly PaymentCadence = "Monthly"
	CadenceYearly  PaymentCadence = "Yearly"
)

// AdminPaymentPrefix marks a listing created directly by an administrator:
// no real payment exists for it, so nothing payment-related is swept on
// delete.
const AdminPaymentPrefix = "ADMIN-"

// AdminOwnerID is the owner recorded on admin-authored listings.
const AdminOwnerID = "admin-user"

type Listing struct {
	ID          string            `json:"id"`
	Type        ListingType       `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Currency    string            `json:"currency"`
	AdType      AdvertisementType `json:"advertisement_type"`
	Cadence     PaymentCadence    `json:"payment_method,omitempty"`

	// Vehicle fields
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	Mileage      int    `json:"mileage,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`

	// Property fields
	Bedrooms  int     `json:"bedrooms,omitempty"`
	Bathrooms int     `json:"bathrooms,omitempty"`
	AreaSqm   float64 `json:"area_sqm,omitempty"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`

	ImageURLs []string `json:"image_urls"`
	// ImageURL mirrors ImageURLs[0]; kept for older consumers.
	ImageURL string `json:"image_url,omitempty"`

	PaymentID  string        `json:"payment_id"`
	Status     ListingStatus `json:"status"`
	Visibility Visibility    `json:"visibility"`
	OwnerID    string        `json:"owner_id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// AdminCreated reports whether the listing was authored by an administrator
// and therefore has no backing payment record.
func (l *Listing) AdminCreated() bool {
	return strings.HasPrefix(l.PaymentID, AdminPaymentPrefix)
}

func ParseListingType(s string) (ListingType, bool) {
	switch ListingType(strings.ToLower(s)) {
	case ListingTypeCar:
		return ListingTypeCar, true
	case ListingTypeHouse:
		return ListingTypeHouse, true
	}
	return "", false
}

func ParseAdvertisementType(s string) (AdvertisementType, bool) {
	switch strings.ToLower(s) {
	case "sale":
		return AdSale, true
	case "rent":
		return AdRent, true
	}
	return "", false
}

// ParsePaymentCadence adapts the legacy numeric-or-string cadence encoding
// at the input boundary. "1" and "Daily" are the same cadence.
func ParsePaymentCadence(s string) (PaymentCadence, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "daily":
		return CadenceDaily, true
	case "2", "weekly":
		return CadenceWeekly, true
	case "3", "monthly":
		return CadenceMonthly, true
	case "4", "yearly":
		return CadenceYearly, true
	}
	return "", false
}
