package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Accepted layouts for the booking dateTime field.
var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseDateTime(s string) (time.Time, error) {
	var err error
	for _, layout := range dateTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// RegisterValidators adds the custom binding tags used by booking requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground validator")
	}
	return v.RegisterValidation("salondatetime", func(fl validator.FieldLevel) bool {
		_, err := parseDateTime(fl.Field().String())
		return err == nil
	})
}

type CreateBookingRequest struct {
	ClientID  string `json:"clientId" binding:"required"`
	MasterID  string `json:"masterId" binding:"required"`
	ServiceID string `json:"serviceId" binding:"required"`
	DateTime  string `json:"dateTime" binding:"required,salondatetime"`
}

type CheckoutRequest struct {
	Method string `json:"method" binding:"omitempty,max=64"`
}

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Bookings booking.BookingService
	Payments booking.PaymentService
	Salon    salonRepo.SalonRepository
	Logger   *zap.Logger
}

func NewBookingHandler(bookings booking.BookingService, payments booking.PaymentService, salon salonRepo.SalonRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Payments: payments, Salon: salon, Logger: logger}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}
	at, err := parseDateTime(req.DateTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	b, err := h.Bookings.CreateBooking(c.Request.Context(), req.ClientID, req.MasterID, req.ServiceID, at)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.runTransition(c, h.Bookings.ConfirmBooking)
}

func (h *BookingHandler) PayBookingHandler(c *gin.Context) {
	h.runTransition(c, h.Bookings.PayBooking)
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.runTransition(c, h.Bookings.CompleteBooking)
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	h.runTransition(c, h.Bookings.CancelBooking)
}

// CheckoutHandler handles POST /api/bookings/:id/checkout. An empty body
// pays with the default method.
func (h *BookingHandler) CheckoutHandler(c *gin.Context) {
	var req CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid checkout request", err.Error())
			return
		}
	}
	b, err := h.Payments.PayForBooking(c.Request.Context(), c.Param("id"), req.Method)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListClientBookingsHandler(c *gin.Context) {
	list, err := h.Bookings.ListClientBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	list, err := h.Bookings.ListBookings(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListMastersHandler returns the master options shown on the booking form.
func (h *BookingHandler) ListMastersHandler(c *gin.Context) {
	masters, err := h.Salon.ListMasters(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	options := make([]models.MasterOption, 0, len(masters))
	for _, m := range masters {
		options = append(options, m.Option())
	}
	c.JSON(http.StatusOK, gin.H{"masters": options})
}

func (h *BookingHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Salon.ListServices(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	type serviceView struct {
		models.Service
		TotalPrice    float64 `json:"totalPrice"`
		TotalDuration int     `json:"totalDurationMinutes"`
	}
	out := make([]serviceView, 0, len(services))
	for _, s := range services {
		out = append(out, serviceView{Service: s, TotalPrice: s.GetPrice(), TotalDuration: s.GetDurationMinutes()})
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (h *BookingHandler) runTransition(c *gin.Context, op func(ctx context.Context, id string) (*models.Booking, error)) {
	b, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeValidationRejected:
		return http.StatusUnprocessableEntity
	case booking.CodeStateError, booking.CodeConflict:
		return http.StatusConflict
	case booking.CodePaymentFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	var be *booking.Error
	if errors.As(err, &be) {
		utils.JSONError(c, statusFor(be.Code), be.Message, be.Code)
		return
	}
	h.Logger.Error("Booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "the request could not be completed")
}
