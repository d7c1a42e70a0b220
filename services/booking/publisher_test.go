package booking

import (
	"context"
	"errors"
	"testing"

	"salonbook/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotifyRunsObserversInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Observer {
		return ObserverFunc(func(context.Context, *models.Booking) error {
			order = append(order, name)
			return nil
		})
	}
	p := NewEventPublisher(zap.NewNop(), mk("email"), mk("sms"), mk("broker"))
	p.Notify(context.Background(), models.NewBooking("b-1", "c", "m", "s", testSlot, 10))

	want := []string{"email", "sms", "broker"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestNotifyIsolatesObserverFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := &recorder{}
	p := NewEventPublisher(zap.New(core),
		ObserverFunc(func(context.Context, *models.Booking) error { return errors.New("smtp down") }),
		ObserverFunc(func(context.Context, *models.Booking) error { panic("nil phone") }),
		rec,
	)

	p.Notify(context.Background(), models.NewBooking("b-1", "c", "m", "s", testSlot, 10))

	if rec.count() != 1 {
		t.Fatalf("third observer should still run, got %d calls", rec.count())
	}
	if n := logs.FilterMessage("Observer failed").Len(); n != 1 {
		t.Errorf("expected one failure log, got %d", n)
	}
	if n := logs.FilterMessage("Observer panicked").Len(); n != 1 {
		t.Errorf("expected one panic log, got %d", n)
	}
}

func TestNotifyDeliversSnapshot(t *testing.T) {
	var got *models.Booking
	p := NewEventPublisher(zap.NewNop(), ObserverFunc(func(_ context.Context, b *models.Booking) error {
		got = b
		return nil
	}))
	b := models.NewBooking("b-1", "c", "m", "s", testSlot, 10)
	p.Notify(context.Background(), b)

	if got == b {
		t.Fatal("observer received the caller's booking instead of a copy")
	}
	if err := b.Confirm(); err != nil {
		t.Fatal(err)
	}
	if got.Status() != models.StatusPending {
		t.Errorf("snapshot changed with the original: %s", got.Status())
	}
}

func TestNotifyWithoutObservers(t *testing.T) {
	p := NewEventPublisher(zap.NewNop())
	p.Notify(context.Background(), models.NewBooking("b-1", "c", "m", "s", testSlot, 10))
}
