package entity

import "time"

// Payment links to a Listing by value equality of ProductID/PaymentID; the
// store enforces no relation between the two.
type Payment struct {
	ID           string    `json:"id"`
	PaymentID    string    `json:"payment_id"`
	ProductID    string    `json:"product_id"`
	ProductType  string    `json:"product_type"`
	ServicePrice float64   `json:"service_price"`
	ReceiptURL   string    `json:"receipt_url,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
