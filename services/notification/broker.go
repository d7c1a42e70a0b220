package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"salonbook/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventPublisher sends a JSON message under a routing key.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// AMQPPublisher publishes to a durable RabbitMQ topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RoutingKey is "booking.<status>" in lower case.
func RoutingKey(s models.Status) string {
	return "booking." + strings.ToLower(s.String())
}

// BrokerObserver announces every booking change to other services.
type BrokerObserver struct {
	pub    EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewBrokerObserver(pub EventPublisher, logger *zap.Logger) *BrokerObserver {
	return &BrokerObserver{pub: pub, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (o *BrokerObserver) Name() string { return "broker" }

func (o *BrokerObserver) Update(ctx context.Context, b *models.Booking) error {
	evt := models.BookingChangedEvent{
		EventID:    uuid.New().String(),
		BookingID:  b.ID,
		ClientID:   b.ClientID,
		MasterID:   b.MasterID,
		ServiceID:  b.ServiceID,
		Status:     b.Status().String(),
		Date:       b.Date,
		Time:       b.Time,
		TotalPrice: b.TotalPrice,
		OccurredAt: o.now(),
	}
	key := RoutingKey(b.Status())
	if err := o.pub.PublishJSON(ctx, key, evt); err != nil {
		return fmt.Errorf("broker: publish %s: %w", key, err)
	}
	o.logger.Debug("Booking event published", zap.String("key", key), zap.String("eventID", evt.EventID))
	return nil
}
