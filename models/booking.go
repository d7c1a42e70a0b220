package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is one scheduled, priced appointment and its lifecycle status.
// The status field is unexported: it only moves through Confirm, Pay,
// Complete and Cancel.
type Booking struct {
	ID         string    // Unique booking identifier (UUID), immutable after creation
	ClientID   string    // Client who made the booking
	MasterID   string    // Master performing the service
	ServiceID  string    // Booked salon service or package
	Date       string    // Booking date in "YYYY-MM-DD" format
	Time       string    // Booking time in "HH:MM" format
	TotalPrice float64   // Copied from the service price at creation
	PaymentID  string    // Linked payment record, set once payment succeeds
	Version    int64     // Optimistic concurrency counter, 0 until first save
	CreatedAt  time.Time // Timestamp when booking was created
	UpdatedAt  time.Time

	status Status
}

// NewBooking builds a booking in PENDING for the given slot.
func NewBooking(id, clientID, masterID, serviceID string, at time.Time, price float64) *Booking {
	now := time.Now().UTC()
	return &Booking{
		ID:         id,
		ClientID:   clientID,
		MasterID:   masterID,
		ServiceID:  serviceID,
		Date:       at.Format(DateLayout),
		Time:       at.Format(TimeLayout),
		TotalPrice: price,
		CreatedAt:  now,
		UpdatedAt:  now,
		status:     StatusPending,
	}
}

// Status returns the current lifecycle status.
func (b *Booking) Status() Status {
	if b.status == "" {
		return StatusPending
	}
	return b.status
}

// State returns the behaviour bound to the current status.
func (b *Booking) State() BookingState {
	return StateOf(b.Status())
}

func (b *Booking) Confirm() error  { return b.State().Confirm(b) }
func (b *Booking) Pay() error      { return b.State().Pay(b) }
func (b *Booking) Complete() error { return b.State().Complete(b) }
func (b *Booking) Cancel() error   { return b.State().Cancel(b) }

// Apply runs the named lifecycle operation.
func (b *Booking) Apply(op Operation) error {
	switch op {
	case OpConfirm:
		return b.Confirm()
	case OpPay:
		return b.Pay()
	case OpComplete:
		return b.Complete()
	case OpCancel:
		return b.Cancel()
	default:
		return fmt.Errorf("unknown booking operation %q", op)
	}
}

// setStatus is the only status mutation primitive; it is called by states.
func (b *Booking) setStatus(s Status) {
	b.status = s
	b.UpdatedAt = time.Now().UTC()
}

// BookingRecord is the storage form of a Booking.
type BookingRecord struct {
	ID         string    `bson:"id" json:"id"`
	ClientID   string    `bson:"client_id" json:"clientId"`
	MasterID   string    `bson:"master_id" json:"masterId"`
	ServiceID  string    `bson:"service_id" json:"serviceId"`
	Date       string    `bson:"date" json:"date"`
	Time       string    `bson:"time" json:"time"`
	Status     string    `bson:"status" json:"status"`
	TotalPrice float64   `bson:"total_price" json:"totalPrice"`
	PaymentID  string    `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	Version    int64     `bson:"version" json:"version"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// ToRecord flattens the booking for storage or transport.
func (b *Booking) ToRecord() BookingRecord {
	return BookingRecord{
		ID:         b.ID,
		ClientID:   b.ClientID,
		MasterID:   b.MasterID,
		ServiceID:  b.ServiceID,
		Date:       b.Date,
		Time:       b.Time,
		Status:     string(b.Status()),
		TotalPrice: b.TotalPrice,
		PaymentID:  b.PaymentID,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// BookingFromRecord rebuilds a booking from storage. The bound state is
// derived from the stored status, so an unknown status is rejected.
func BookingFromRecord(rec BookingRecord) (*Booking, error) {
	status, err := ParseStatus(rec.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", rec.ID, err)
	}
	return &Booking{
		ID:         rec.ID,
		ClientID:   rec.ClientID,
		MasterID:   rec.MasterID,
		ServiceID:  rec.ServiceID,
		Date:       rec.Date,
		Time:       rec.Time,
		TotalPrice: rec.TotalPrice,
		PaymentID:  rec.PaymentID,
		Version:    rec.Version,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		status:     status,
	}, nil
}

func (b *Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToRecord())
}
