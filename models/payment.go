package models

import "time"

// PaymentStatus records the outcome of a charge.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

const DefaultPaymentMethod = "card"

// PaymentRecord is the durable record of a payment, one-to-one with a booking.
type PaymentRecord struct {
	ID          string        `bson:"id" json:"id"`
	BookingID   string        `bson:"booking_id" json:"bookingId"`
	Amount      float64       `bson:"amount" json:"amount"`
	Method      string        `bson:"method" json:"method"`
	Status      PaymentStatus `bson:"status" json:"status"`
	PaidAt      time.Time     `bson:"paid_at" json:"paidAt"`
	ExternalRef string        `bson:"external_ref,omitempty" json:"externalRef,omitempty"`
}
