package models

import "time"

// SMSPayload is the queued body of an SMS notification task.
type SMSPayload struct {
	To        string `json:"to"`
	Body      string `json:"body"`
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// BookingChangedEvent is the broker message emitted on every booking change.
type BookingChangedEvent struct {
	EventID    string    `json:"eventId"`
	BookingID  string    `json:"bookingId"`
	ClientID   string    `json:"clientId"`
	MasterID   string    `json:"masterId"`
	ServiceID  string    `json:"serviceId"`
	Status     string    `json:"status"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	TotalPrice float64   `json:"totalPrice"`
	OccurredAt time.Time `json:"occurredAt"`
}
