package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonbook/config"
	"salonbook/models"
	"salonbook/services/notification"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection shared by the SMS observer and worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitSMSWorker runs the SMS delivery worker in the background. The returned
// server is shut down by the caller.
func InitSMSWorker(sender notification.SMSSender, logger *zap.Logger) *asynq.Server {
	concurrency := config.AppConfig.SMSWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendSMS, HandleSMSTask(sender, logger))

	go func() {
		logger.Info("Starting SMS worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Warn("SMS worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("SMS worker gave up; queued messages stay in Redis")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleSMSTask decodes a queued SMS and hands it to sender.
func HandleSMSTask(sender notification.SMSSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.SMSPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid SMS payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		if p.To == "" {
			logger.Warn("SMS task without recipient", zap.String("bookingID", p.BookingID))
			return nil
		}

		if err := sender.SendSMS(ctx, p.To, p.Body); err != nil {
			logger.Warn("Failed to send SMS",
				zap.String("bookingID", p.BookingID),
				zap.String("status", p.Status),
				zap.Error(err))
			return err
		}
		return nil
	}
}
