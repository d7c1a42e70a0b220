package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"salonbook/database"
	bookingRepo "salonbook/database/repository/booking"
	paymentRepo "salonbook/database/repository/payment"
	"salonbook/models"
	"salonbook/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentTimeout bounds a gateway call when no timeout is configured.
const DefaultPaymentTimeout = 10 * time.Second

// PaymentFacade charges a booking through the gateway and records the
// payment and the PAID booking together.
type PaymentFacade struct {
	Bookings  bookingRepo.BookingRepository
	Payments  paymentRepo.PaymentRepository
	Tx        database.Transactor
	Gateway   payment.Gateway
	Publisher *EventPublisher
	Locker    Locker
	Logger    *zap.Logger
	Timeout   time.Duration
	NewID     func() string
	Now       func() time.Time
}

var _ PaymentService = (*PaymentFacade)(nil)

// PayForBooking is the checkout path. A declined, failed or timed out charge
// leaves the stored booking untouched.
func (f *PaymentFacade) PayForBooking(ctx context.Context, id, method string) (*models.Booking, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = models.DefaultPaymentMethod
	}

	unlock, err := f.Locker.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock booking %s: %w", id, err)
	}
	defer unlock()

	b, err := f.Bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if b == nil {
		return nil, NewNotFoundError(id)
	}

	// The transition runs on the loaded copy only; it is written after the
	// charge succeeds.
	if err := b.Pay(); err != nil {
		return nil, NewStateError(err)
	}

	receipt, err := f.charge(ctx, id, b.TotalPrice, method)
	if err != nil || !receipt.Approved {
		f.Logger.Warn("Payment not completed",
			zap.String("bookingID", id),
			zap.String("method", method),
			zap.Float64("amount", b.TotalPrice),
			zap.Bool("declined", err == nil),
			zap.Error(err))
		if err == nil {
			return nil, NewPaymentFailedError("payment was declined", nil)
		}
		return nil, NewPaymentFailedError("payment could not be processed", err)
	}

	rec := &models.PaymentRecord{
		ID:          f.newID(),
		BookingID:   b.ID,
		Amount:      b.TotalPrice,
		Method:      method,
		Status:      models.PaymentSuccess,
		PaidAt:      f.now(),
		ExternalRef: receipt.Reference,
	}

	var saved *models.Booking
	err = f.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := f.Payments.Save(txCtx, rec); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		b.PaymentID = rec.ID
		s, err := f.Bookings.Save(txCtx, b)
		if err != nil {
			return err
		}
		saved = s
		return nil
	})
	if err != nil {
		f.Logger.Error("Payment captured but not recorded; reconciliation required",
			zap.String("bookingID", id),
			zap.String("paymentID", rec.ID),
			zap.String("externalRef", rec.ExternalRef),
			zap.Float64("amount", rec.Amount),
			zap.String("method", method),
			zap.Error(err))
		msg := "payment was taken but could not be recorded"
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			msg = "payment was taken but the booking changed concurrently"
		}
		return nil, newError(CodeReconciliationRequired, msg, err)
	}

	f.Logger.Info("Booking paid",
		zap.String("bookingID", id),
		zap.String("paymentID", rec.ID),
		zap.Float64("amount", rec.Amount))
	f.Publisher.Notify(ctx, saved)
	return saved, nil
}

type chargeResult struct {
	receipt payment.Receipt
	err     error
}

// charge waits at most the configured timeout, even for a gateway that
// ignores its context. A charge approved after the wait was abandoned is
// logged for reconciliation, since the booking stays CONFIRMED.
func (f *PaymentFacade) charge(ctx context.Context, id string, amount float64, method string) (payment.Receipt, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultPaymentTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var mu sync.Mutex
	abandoned := false
	done := make(chan chargeResult, 1)
	go func() {
		r, err := f.Gateway.Charge(cctx, amount, method)
		mu.Lock()
		late := abandoned
		if !late {
			done <- chargeResult{receipt: r, err: err}
		}
		mu.Unlock()
		if late && err == nil && r.Approved {
			f.Logger.Error("Payment approved after timeout; reconciliation required",
				zap.String("bookingID", id),
				zap.String("externalRef", r.Reference),
				zap.Float64("amount", amount),
				zap.String("method", method))
		}
	}()

	select {
	case res := <-done:
		return res.receipt, res.err
	case <-cctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	abandoned = true
	select {
	case res := <-done:
		return res.receipt, res.err
	default:
		return payment.Receipt{}, fmt.Errorf("payment gateway: %w", cctx.Err())
	}
}

func (f *PaymentFacade) newID() string {
	if f.NewID != nil {
		return f.NewID()
	}
	return uuid.New().String()
}

func (f *PaymentFacade) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now().UTC()
}
