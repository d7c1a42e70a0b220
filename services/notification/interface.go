package notification

import (
	"context"

	"salonbook/models"

	"go.uber.org/zap"
)

// ClientLookup resolves the recipient of a booking notification.
type ClientLookup interface {
	FindClient(ctx context.Context, id string) (*models.Client, error)
}

// Mailer delivers a plain text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogMailer writes outgoing mail to the log instead of an SMTP relay.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// LogSMSSender writes outgoing messages to the log instead of an SMS provider.
type LogSMSSender struct {
	Logger *zap.Logger
}

func (s LogSMSSender) SendSMS(_ context.Context, to, body string) error {
	s.Logger.Info("SMS sent", zap.String("to", to), zap.String("body", body))
	return nil
}

func statusMessage(b *models.Booking) string {
	return "Your booking on " + b.Date + " at " + b.Time + " is now " + b.Status().String() + "."
}
