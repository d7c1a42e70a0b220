package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking lifecycle endpoints
	CreateBookingHandler   gin.HandlerFunc
	GetBookingHandler      gin.HandlerFunc
	ConfirmBookingHandler  gin.HandlerFunc
	PayBookingHandler      gin.HandlerFunc
	CompleteBookingHandler gin.HandlerFunc
	CancelBookingHandler   gin.HandlerFunc
	CheckoutHandler        gin.HandlerFunc

	// Listings
	ListClientBookingsHandler gin.HandlerFunc
	ListBookingsHandler       gin.HandlerFunc
	ListMastersHandler        gin.HandlerFunc
	ListServicesHandler       gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler into the bundle.
func NewHandlerBundle(h *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateBookingHandler:   h.CreateBookingHandler,
		GetBookingHandler:      h.GetBookingHandler,
		ConfirmBookingHandler:  h.ConfirmBookingHandler,
		PayBookingHandler:      h.PayBookingHandler,
		CompleteBookingHandler: h.CompleteBookingHandler,
		CancelBookingHandler:   h.CancelBookingHandler,
		CheckoutHandler:        h.CheckoutHandler,

		ListClientBookingsHandler: h.ListClientBookingsHandler,
		ListBookingsHandler:       h.ListBookingsHandler,
		ListMastersHandler:        h.ListMastersHandler,
		ListServicesHandler:       h.ListServicesHandler,

		HealthHandler: HealthHandler,
	}
}
