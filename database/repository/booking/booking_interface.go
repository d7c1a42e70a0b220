package bookingRepo

import (
	"context"
	"errors"

	"salonbook/models"
)

// ErrVersionConflict is returned by Save when the stored booking changed
// since it was loaded.
var ErrVersionConflict = errors.New("booking was modified concurrently")

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// FindByID returns nil, nil when no booking has the id.
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	// Save inserts a booking with Version 0, otherwise updates it guarded by
	// its version. On success b.Version holds the stored version.
	Save(ctx context.Context, b *models.Booking) (*models.Booking, error)
	// ListByClient returns a client's bookings, newest date first.
	ListByClient(ctx context.Context, clientID string) ([]*models.Booking, error)
	// ListAll returns every booking, newest date first.
	ListAll(ctx context.Context) ([]*models.Booking, error)
}
