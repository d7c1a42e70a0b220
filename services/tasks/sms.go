package tasks

import (
	"encoding/json"
	"time"

	"salonbook/models"

	"github.com/hibiken/asynq"
)

const TypeSendSMS = "sms:send"

func NewSMSTask(payload models.SMSPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendSMS, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}

	return task, opts, nil
}
