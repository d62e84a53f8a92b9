package model

import "time"

type PaymentModel struct {
	ID           string    `bson:"_id,omitempty"`
	PaymentID    string    `bson:"paymentId"`
	ProductID    string    `bson:"productId"`
	ProductType  string    `bson:"productType"`
	ServicePrice float64   `bson:"servicePrice"`
	ReceiptURL   string    `bson:"receiptUrl,omitempty"`
	UploadedAt   time.Time `bson:"uploadedAt"`
}
