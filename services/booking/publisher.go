package booking

import (
	"context"
	"fmt"

	"salonbook/models"

	"go.uber.org/zap"
)

// Observer reacts to a booking whose status was just saved.
type Observer interface {
	Update(ctx context.Context, b *models.Booking) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, b *models.Booking) error

func (f ObserverFunc) Update(ctx context.Context, b *models.Booking) error {
	return f(ctx, b)
}

// NamedObserver is implemented by observers that want a label in logs.
type NamedObserver interface {
	Name() string
}

// EventPublisher fans a saved booking out to a fixed list of observers.
type EventPublisher struct {
	logger    *zap.Logger
	observers []Observer
}

func NewEventPublisher(logger *zap.Logger, observers ...Observer) *EventPublisher {
	obs := make([]Observer, len(observers))
	copy(obs, observers)
	return &EventPublisher{logger: logger, observers: obs}
}

// Notify delivers one snapshot of b to each observer in order. A failing or
// panicking observer is logged and the rest still run.
func (p *EventPublisher) Notify(ctx context.Context, b *models.Booking) {
	if p == nil || b == nil {
		return
	}
	snapshot, err := models.BookingFromRecord(b.ToRecord())
	if err != nil {
		p.logger.Error("Could not snapshot booking for observers", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	for i, o := range p.observers {
		p.deliver(ctx, i, o, snapshot)
	}
}

func (p *EventPublisher) deliver(ctx context.Context, idx int, o Observer, b *models.Booking) {
	name := observerName(idx, o)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Observer panicked",
				zap.String("observer", name),
				zap.String("bookingID", b.ID),
				zap.Any("panic", r))
		}
	}()
	if err := o.Update(ctx, b); err != nil {
		p.logger.Warn("Observer failed",
			zap.String("observer", name),
			zap.String("bookingID", b.ID),
			zap.String("status", b.Status().String()),
			zap.Error(err))
	}
}

func observerName(idx int, o Observer) string {
	if n, ok := o.(NamedObserver); ok {
		return n.Name()
	}
	return fmt.Sprintf("observer-%d", idx)
}
