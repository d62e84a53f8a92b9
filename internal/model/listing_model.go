package model

import "time"

// ListingModel is the variant-tagged listing document. Vehicle and property
// fields live side by side; the unused side is omitted from the document.
type ListingModel struct {
	ID          string  `bson:"_id,omitempty"`
	ListingType string  `bson:"listingType"`
	Name        string  `bson:"name"`
	Description string  `bson:"description,omitempty"`
	Price       float64 `bson:"price"`
	Currency    string  `bson:"currency,omitempty"`
	AdType      string  `bson:"advertisementType"`
	Cadence     string  `bson:"paymentMethod,omitempty"`

	Brand        string `bson:"brand,omitempty"`
	Model        string `bson:"model,omitempty"`
	Year         int    `bson:"year,omitempty"`
	Mileage      int    `bson:"mileage,omitempty"`
	Transmission string `bson:"transmission,omitempty"`
	FuelType     string `bson:"fuelType,omitempty"`

	Bedrooms  int     `bson:"bedrooms,omitempty"`
	Bathrooms int     `bson:"bathrooms,omitempty"`
	AreaSqm   float64 `bson:"areaSqm,omitempty"`
	Address   string  `bson:"address,omitempty"`
	City      string  `bson:"city,omitempty"`

	ImageURLs []string `bson:"imageUrls"`
	ImageURL  string   `bson:"imageUrl,omitempty"`

	PaymentID  string    `bson:"paymentId"`
	Status     string    `bson:"status"`
	Visibility string    `bson:"visibility"`
	OwnerID    string    `bson:"ownerId"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}
