package paymentRepo

import (
	"context"

	"salonbook/models"
)

// PaymentRepository defines the interface for payment record data access.
type PaymentRepository interface {
	// Save persists a payment record; a booking has at most one.
	Save(ctx context.Context, p *models.PaymentRecord) (*models.PaymentRecord, error)
	// FindByBookingID returns nil, nil when the booking has no payment.
	FindByBookingID(ctx context.Context, bookingID string) (*models.PaymentRecord, error)
}
