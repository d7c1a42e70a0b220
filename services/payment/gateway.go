package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// Gateway charges an amount through an external payment provider. A receipt
// that is not Approved, with a nil error, is a decline.
type Gateway interface {
	Charge(ctx context.Context, amount float64, method string) (Receipt, error)
}

// Receipt is the provider's answer to a charge. Reference identifies the
// charge on the provider side and is stored with the payment record.
type Receipt struct {
	Approved  bool
	Reference string
}

// SimulatedGateway approves every charge except declined methods.
type SimulatedGateway struct {
	Latency  time.Duration
	Declined map[string]bool
	logger   *zap.Logger
}

func NewSimulatedGateway(logger *zap.Logger, latency time.Duration, declined ...string) *SimulatedGateway {
	d := make(map[string]bool, len(declined))
	for _, m := range declined {
		d[strings.ToLower(m)] = true
	}
	return &SimulatedGateway{Latency: latency, Declined: d, logger: logger}
}

func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, method string) (Receipt, error) {
	if g.Latency > 0 {
		timer := time.NewTimer(g.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	ok := !g.Declined[strings.ToLower(method)]
	g.logger.Debug("Simulated charge",
		zap.Float64("amount", amount),
		zap.String("method", method),
		zap.Bool("approved", ok))
	if !ok {
		return Receipt{}, nil
	}
	return Receipt{Approved: true, Reference: "sim_" + uuid.New().String()}, nil
}

// StripeGateway creates and confirms a PaymentIntent. The method is passed
// as the Stripe payment method id, e.g. "pm_card_visa" in test mode.
type StripeGateway struct {
	Currency string
	logger   *zap.Logger
}

// NewStripeGateway sets the package-level Stripe key.
func NewStripeGateway(logger *zap.Logger, key, currency string) *StripeGateway {
	stripe.Key = key
	return &StripeGateway{Currency: strings.ToLower(currency), logger: logger}
}

func (g *StripeGateway) Charge(ctx context.Context, amount float64, method string) (Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(ToMinorUnits(amount)),
		Currency:      stripe.String(g.Currency),
		PaymentMethod: stripe.String(method),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Type == stripe.ErrorTypeCard {
			g.logger.Info("Stripe card declined", zap.String("code", string(serr.Code)))
			return Receipt{}, nil
		}
		return Receipt{}, fmt.Errorf("stripe payment intent failed: %w", err)
	}

	g.logger.Info("Stripe payment intent",
		zap.String("id", pi.ID),
		zap.String("status", string(pi.Status)))
	return Receipt{
		Approved:  pi.Status == stripe.PaymentIntentStatusSucceeded,
		Reference: pi.ID,
	}, nil
}

// ToMinorUnits converts a decimal amount to cents.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
