package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"salonbook/database/repository/memstore"
	"salonbook/models"

	"go.uber.org/zap"
)

var testSlot = time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)

// recorder is an observer that keeps every snapshot it sees.
type recorder struct {
	mu   sync.Mutex
	seen []*models.Booking
}

func (r *recorder) Update(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, b)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *recorder) last() *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return nil
	}
	return r.seen[len(r.seen)-1]
}

type fixture struct {
	store   *memstore.Store
	rec     *recorder
	service *DefaultBookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.AddClient(models.Client{ID: "c-1", FullName: "Test Client", Email: "c1@example.com", Phone: "+100"})
	store.AddMaster(models.Master{ID: "m-1", FullName: "Test Master"})
	store.AddService(models.Service{ID: "s-1", Name: "Haircut", Price: 450, DurationMinutes: 45})

	rec := &recorder{}
	logger := zap.NewNop()
	seq := 0
	svc := &DefaultBookingService{
		Repo:      store,
		Chain:     DefaultValidationChain(store),
		Publisher: NewEventPublisher(logger, rec),
		Locker:    NewLocalLocker(),
		Logger:    logger,
		NewID: func() string {
			seq++
			return fmt.Sprintf("b-%d", seq)
		},
	}
	return &fixture{store: store, rec: rec, service: svc}
}

// seedBooking creates a booking and moves it forward by ops.
func (f *fixture) seedBooking(t *testing.T, ops ...models.Operation) *models.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.service.CreateBooking(ctx, "c-1", "m-1", "s-1", testSlot)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	for _, op := range ops {
		b, err = f.service.transition(ctx, b.ID, op)
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
	}
	return b
}
