package models

import "fmt"

// Status is the durable lifecycle position of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusPaid, StatusCompleted, StatusCancelled}

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("invalid booking status: %q", s)
	}
	return status, nil
}

// IsTerminal reports whether no operation may leave this status.
func (s Status) IsTerminal() bool {
	for _, t := range transitions[s] {
		if t.Allowed {
			return false
		}
	}
	return true
}

func (s Status) String() string { return string(s) }

// Operation is a lifecycle transition request.
type Operation string

const (
	OpConfirm  Operation = "confirm"
	OpPay      Operation = "pay"
	OpComplete Operation = "complete"
	OpCancel   Operation = "cancel"
)

// Operations lists every lifecycle operation.
var Operations = []Operation{OpConfirm, OpPay, OpComplete, OpCancel}

// TransitionRule is one cell of the transition table.
type TransitionRule struct {
	Allowed bool
	Next    Status
	Reason  string // message reported when Allowed is false
}

func allow(next Status) TransitionRule  { return TransitionRule{Allowed: true, Next: next} }
func deny(reason string) TransitionRule { return TransitionRule{Reason: reason} }

const (
	msgNotConfirmed     = "booking cannot be paid while not yet confirmed"
	msgNotPaid          = "booking cannot be completed before it is paid"
	msgAlreadyConfirmed = "booking is already confirmed"
	msgAlreadyPaid      = "booking is already paid"
	msgCancelAfterPaid  = "booking cannot be cancelled once paid"
	msgAlreadyCompleted = "booking is already completed"
	msgCancelAfterDone  = "booking cannot be cancelled once completed"
	msgCancelled        = "booking has been cancelled"
	msgAlreadyCancelled = "booking is already cancelled"
)

// transitions covers every status × operation pair; there is no undefined cell.
var transitions = map[Status]map[Operation]TransitionRule{
	StatusPending: {
		OpConfirm:  allow(StatusConfirmed),
		OpPay:      deny(msgNotConfirmed),
		OpComplete: deny(msgNotPaid),
		OpCancel:   allow(StatusCancelled),
	},
	StatusConfirmed: {
		OpConfirm:  deny(msgAlreadyConfirmed),
		OpPay:      allow(StatusPaid),
		OpComplete: deny(msgNotPaid),
		OpCancel:   allow(StatusCancelled),
	},
	StatusPaid: {
		OpConfirm:  deny(msgAlreadyPaid),
		OpPay:      deny(msgAlreadyPaid),
		OpComplete: allow(StatusCompleted),
		OpCancel:   deny(msgCancelAfterPaid),
	},
	StatusCompleted: {
		OpConfirm:  deny(msgAlreadyCompleted),
		OpPay:      deny(msgAlreadyCompleted),
		OpComplete: deny(msgAlreadyCompleted),
		OpCancel:   deny(msgCancelAfterDone),
	},
	StatusCancelled: {
		OpConfirm:  deny(msgCancelled),
		OpPay:      deny(msgCancelled),
		OpComplete: deny(msgCancelled),
		OpCancel:   deny(msgAlreadyCancelled),
	},
}

// Transition looks up the rule for applying op in status from.
func Transition(from Status, op Operation) (TransitionRule, bool) {
	rule, ok := transitions[from][op]
	return rule, ok
}

// TransitionError reports an operation that is illegal from the current status.
type TransitionError struct {
	From   Status
	Op     Operation
	Reason string
}

func (e *TransitionError) Error() string {
	return e.Reason
}

// BookingState is the behaviour bound to one status value.
type BookingState interface {
	Status() Status
	Confirm(b *Booking) error
	Pay(b *Booking) error
	Complete(b *Booking) error
	Cancel(b *Booking) error
}

// tableState drives transitions from the table. It carries nothing but the
// status it is bound to, so it is rebuilt whenever it is needed.
type tableState Status

// StateOf returns the behaviour for a status.
func StateOf(s Status) BookingState {
	return tableState(s)
}

func (s tableState) Status() Status { return Status(s) }

func (s tableState) Confirm(b *Booking) error  { return s.apply(b, OpConfirm) }
func (s tableState) Pay(b *Booking) error      { return s.apply(b, OpPay) }
func (s tableState) Complete(b *Booking) error { return s.apply(b, OpComplete) }
func (s tableState) Cancel(b *Booking) error   { return s.apply(b, OpCancel) }

func (s tableState) apply(b *Booking, op Operation) error {
	from := Status(s)
	if b.Status() != from {
		return fmt.Errorf("booking %s is %s, state bound to %s", b.ID, b.Status(), from)
	}
	rule, ok := Transition(from, op)
	if !ok {
		return fmt.Errorf("unknown transition %s from %s", op, from)
	}
	if !rule.Allowed {
		return &TransitionError{From: from, Op: op, Reason: rule.Reason}
	}
	b.setStatus(rule.Next)
	return nil
}
