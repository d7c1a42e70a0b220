package notification

import (
	"context"
	"fmt"
	"strings"

	"salonbook/models"

	"go.uber.org/zap"
)

const EmailSubject = "Your booking status has changed"

// EmailObserver mails the client whenever their booking changes status.
type EmailObserver struct {
	clients ClientLookup
	mailer  Mailer
	logger  *zap.Logger
}

func NewEmailObserver(clients ClientLookup, mailer Mailer, logger *zap.Logger) *EmailObserver {
	return &EmailObserver{clients: clients, mailer: mailer, logger: logger}
}

func (o *EmailObserver) Name() string { return "email" }

func (o *EmailObserver) Update(ctx context.Context, b *models.Booking) error {
	c, err := o.clients.FindClient(ctx, b.ClientID)
	if err != nil {
		return fmt.Errorf("email: could not load client %s: %w", b.ClientID, err)
	}
	if c == nil || c.Email == "" {
		return fmt.Errorf("email: client %s has no email address", b.ClientID)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", c.FullName)
	body.WriteString(statusMessage(b))
	fmt.Fprintf(&body, "\n\nBooking reference: %s\n", b.ID)

	if err := o.mailer.Send(ctx, c.Email, EmailSubject, body.String()); err != nil {
		return fmt.Errorf("email: send to %s: %w", c.Email, err)
	}
	o.logger.Debug("Booking email dispatched", zap.String("bookingID", b.ID), zap.String("status", b.Status().String()))
	return nil
}
