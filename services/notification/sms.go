package notification

import (
	"context"
	"fmt"

	"salonbook/models"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskEnqueuer is the part of *asynq.Client the SMS observer uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SMSObserver queues a text message for the client; the cron worker sends it.
type SMSObserver struct {
	clients ClientLookup
	queue   TaskEnqueuer
	logger  *zap.Logger
}

func NewSMSObserver(clients ClientLookup, queue TaskEnqueuer, logger *zap.Logger) *SMSObserver {
	return &SMSObserver{clients: clients, queue: queue, logger: logger}
}

func (o *SMSObserver) Name() string { return "sms" }

func (o *SMSObserver) Update(ctx context.Context, b *models.Booking) error {
	c, err := o.clients.FindClient(ctx, b.ClientID)
	if err != nil {
		return fmt.Errorf("sms: could not load client %s: %w", b.ClientID, err)
	}
	if c == nil || c.Phone == "" {
		o.logger.Debug("Client has no phone, skipping SMS", zap.String("clientID", b.ClientID))
		return nil
	}

	task, opts, err := tasks.NewSMSTask(models.SMSPayload{
		To:        c.Phone,
		Body:      statusMessage(b),
		BookingID: b.ID,
		Status:    b.Status().String(),
	})
	if err != nil {
		return fmt.Errorf("sms: build task: %w", err)
	}
	info, err := o.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("sms: enqueue: %w", err)
	}
	o.logger.Debug("SMS queued", zap.String("bookingID", b.ID), zap.String("taskID", info.ID))
	return nil
}
