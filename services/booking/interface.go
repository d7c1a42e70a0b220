package booking

import (
	"context"
	"time"

	bookingRepo "salonbook/database/repository/booking"
	"salonbook/models"

	"go.uber.org/zap"
)

// BookingService drives a booking through its lifecycle.
type BookingService interface {
	CreateBooking(ctx context.Context, clientID, masterID, serviceID string, at time.Time) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*models.Booking, error)
	PayBooking(ctx context.Context, id string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListClientBookings(ctx context.Context, clientID string) ([]*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
}

// PaymentService takes payment for a confirmed booking.
type PaymentService interface {
	PayForBooking(ctx context.Context, id, method string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Chain     *ValidationChain
	Publisher *EventPublisher
	Locker    Locker
	Logger    *zap.Logger

	// NewID overrides booking id generation; uuid when nil.
	NewID func() string
}
