// Package memstore keeps bookings, payments and salon data in process memory.
// It backs the tests and the "memory" storage driver.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"salonbook/database"
	bookingRepo "salonbook/database/repository/booking"
	paymentRepo "salonbook/database/repository/payment"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
)

var (
	_ bookingRepo.BookingRepository = (*Store)(nil)
	_ salonRepo.SalonRepository     = (*Store)(nil)
	_ database.Transactor           = (*Store)(nil)
)

// Store holds copies of every entity, so callers never share memory with it.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	bookings map[string]models.BookingRecord
	payments map[string]models.PaymentRecord // keyed by booking id
	clients  map[string]models.Client
	masters  map[string]models.Master
	services map[string]models.Service

	// FailNextSave makes the next booking or payment save return this error.
	FailNextSave error
}

func New() *Store {
	return &Store{
		bookings: make(map[string]models.BookingRecord),
		payments: make(map[string]models.PaymentRecord),
		clients:  make(map[string]models.Client),
		masters:  make(map[string]models.Master),
		services: make(map[string]models.Service),
	}
}

// Payments returns the payment repository view of the store.
func (s *Store) Payments() paymentRepo.PaymentRepository {
	return paymentView{s}
}

func (s *Store) AddClient(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
}

func (s *Store) AddMaster(m models.Master) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masters[m.ID] = m
}

func (s *Store) AddService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) takeFailure() error {
	err := s.FailNextSave
	s.FailNextSave = nil
	return err
}

// --- bookings ---

func (s *Store) FindByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	rec, ok := s.bookings[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return models.BookingFromRecord(rec)
}

func (s *Store) Save(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	rec := b.ToRecord()
	current, exists := s.bookings[rec.ID]
	switch {
	case rec.Version == 0 && exists:
		return nil, bookingRepo.ErrVersionConflict
	case rec.Version != 0 && (!exists || current.Version != rec.Version):
		return nil, bookingRepo.ErrVersionConflict
	}
	rec.Version++
	if u := undoFrom(ctx); u != nil {
		u.bookings = append(u.bookings, bookingUndo{id: rec.ID, prev: current, existed: exists})
	}
	s.bookings[rec.ID] = rec
	b.Version = rec.Version
	return b, nil
}

func (s *Store) ListByClient(_ context.Context, clientID string) ([]*models.Booking, error) {
	return s.list(func(rec models.BookingRecord) bool { return rec.ClientID == clientID })
}

func (s *Store) ListAll(_ context.Context) ([]*models.Booking, error) {
	return s.list(func(models.BookingRecord) bool { return true })
}

func (s *Store) list(match func(models.BookingRecord) bool) ([]*models.Booking, error) {
	s.mu.RLock()
	recs := make([]models.BookingRecord, 0, len(s.bookings))
	for _, rec := range s.bookings {
		if match(rec) {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		if recs[i].Time != recs[j].Time {
			return recs[i].Time > recs[j].Time
		}
		return recs[i].ID < recs[j].ID
	})

	out := make([]*models.Booking, 0, len(recs))
	for _, rec := range recs {
		b, err := models.BookingFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// --- payments ---

type paymentView struct{ s *Store }

func (v paymentView) Save(ctx context.Context, p *models.PaymentRecord) (*models.PaymentRecord, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if err := v.s.takeFailure(); err != nil {
		return nil, err
	}
	if _, exists := v.s.payments[p.BookingID]; exists {
		return nil, fmt.Errorf("booking %s already has a payment", p.BookingID)
	}
	if u := undoFrom(ctx); u != nil {
		u.payments = append(u.payments, p.BookingID)
	}
	v.s.payments[p.BookingID] = *p
	return p, nil
}

func (v paymentView) FindByBookingID(_ context.Context, bookingID string) (*models.PaymentRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.payments[bookingID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// PaymentCount returns how many payment records are stored.
func (s *Store) PaymentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}

// --- salon lookups ---

func (s *Store) FindClient(_ context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) FindMaster(_ context.Context, id string) (*models.Master, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.masters[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) FindService(_ context.Context, id string) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (s *Store) ListMasters(_ context.Context) ([]models.Master, error) {
	s.mu.RLock()
	out := make([]models.Master, 0, len(s.masters))
	for _, m := range s.masters {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *Store) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- transactions ---

type undoKey struct{}

// undoLog records what a unit wrote so a failure reverts those keys only.
type undoLog struct {
	bookings []bookingUndo
	payments []string // booking ids of inserted payments
}

type bookingUndo struct {
	id      string
	prev    models.BookingRecord
	existed bool
}

func undoFrom(ctx context.Context) *undoLog {
	u, _ := ctx.Value(undoKey{}).(*undoLog)
	return u
}

// WithinTransaction runs fn with a context that logs every write made
// through it. If fn fails, those writes are reverted in reverse order;
// writes made outside the unit are left alone. Units are serialized against
// each other.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	u := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, u)); err != nil {
		s.mu.Lock()
		for i := len(u.bookings) - 1; i >= 0; i-- {
			w := u.bookings[i]
			if w.existed {
				s.bookings[w.id] = w.prev
			} else {
				delete(s.bookings, w.id)
			}
		}
		for _, id := range u.payments {
			delete(s.payments, id)
		}
		s.mu.Unlock()
		return err
	}
	return nil
}
