package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "salonbook/database/repository/booking"
	"salonbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ BookingService = (*DefaultBookingService)(nil)

// CreateBooking validates the request, then saves a PENDING booking priced
// from the service and notifies observers.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, clientID, masterID, serviceID string, at time.Time) (*models.Booking, error) {
	vctx := &ValidationContext{
		ClientID:  clientID,
		MasterID:  masterID,
		ServiceID: serviceID,
		DateTime:  at,
	}
	if err := s.Chain.Validate(ctx, vctx); err != nil {
		s.Logger.Error("Booking validation could not run", zap.Error(err))
		return nil, fmt.Errorf("failed to validate booking: %w", err)
	}
	if vctx.HasError() {
		s.Logger.Info("Booking rejected",
			zap.String("clientID", clientID),
			zap.String("reason", vctx.Error()))
		return nil, NewValidationError(vctx.Error())
	}

	b := models.NewBooking(s.newID(), clientID, masterID, serviceID, at, vctx.Service.GetPrice())
	saved, err := s.Repo.Save(ctx, b)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, NewConflictError(b.ID, err)
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.Logger.Info("Booking created",
		zap.String("bookingID", saved.ID),
		zap.String("clientID", clientID),
		zap.String("masterID", masterID),
		zap.Float64("totalPrice", saved.TotalPrice))
	s.Publisher.Notify(ctx, saved)
	return saved, nil
}

func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.OpConfirm)
}

// PayBooking marks a booking paid without contacting a gateway.
func (s *DefaultBookingService) PayBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.OpPay)
}

func (s *DefaultBookingService) CompleteBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.OpComplete)
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.OpCancel)
}

func (s *DefaultBookingService) transition(ctx context.Context, id string, op models.Operation) (*models.Booking, error) {
	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking %s: %w", id, err)
	}
	defer unlock()

	b, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if b == nil {
		return nil, NewNotFoundError(id)
	}

	from := b.Status()
	if err := b.Apply(op); err != nil {
		s.Logger.Info("Booking transition rejected",
			zap.String("bookingID", id),
			zap.String("op", string(op)),
			zap.String("status", from.String()),
			zap.Error(err))
		return nil, NewStateError(err)
	}

	saved, err := s.Repo.Save(ctx, b)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, NewConflictError(id, err)
		}
		return nil, fmt.Errorf("failed to save booking %s: %w", id, err)
	}

	s.Logger.Info("Booking status changed",
		zap.String("bookingID", id),
		zap.String("from", from.String()),
		zap.String("to", saved.Status().String()))
	s.Publisher.Notify(ctx, saved)
	return saved, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if b == nil {
		return nil, NewNotFoundError(id)
	}
	return b, nil
}

func (s *DefaultBookingService) ListClientBookings(ctx context.Context, clientID string) ([]*models.Booking, error) {
	bookings, err := s.Repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for client %s: %w", clientID, err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}
