package cron

import (
	"context"
	"errors"
	"testing"

	"salonbook/models"
	"salonbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type smsRecorder struct {
	to, body string
	calls    int
	err      error
}

func (r *smsRecorder) SendSMS(_ context.Context, to, body string) error {
	r.calls++
	r.to, r.body = to, body
	return r.err
}

func TestHandleSMSTaskSends(t *testing.T) {
	rec := &smsRecorder{}
	task, _, err := tasks.NewSMSTask(models.SMSPayload{To: "+100", Body: "hi", BookingID: "b-1", Status: "PAID"})
	if err != nil {
		t.Fatal(err)
	}
	if err := HandleSMSTask(rec, zap.NewNop())(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if rec.calls != 1 || rec.to != "+100" || rec.body != "hi" {
		t.Errorf("unexpected delivery %+v", rec)
	}
}

func TestHandleSMSTaskRetriesSenderFailure(t *testing.T) {
	down := errors.New("provider down")
	rec := &smsRecorder{err: down}
	task, _, _ := tasks.NewSMSTask(models.SMSPayload{To: "+100", Body: "hi"})
	if err := HandleSMSTask(rec, zap.NewNop())(context.Background(), task); !errors.Is(err, down) {
		t.Fatalf("expected sender error for retry, got %v", err)
	}
}

func TestHandleSMSTaskSkipsBadPayload(t *testing.T) {
	rec := &smsRecorder{}
	task := asynq.NewTask(tasks.TypeSendSMS, []byte("{not json"))
	err := HandleSMSTask(rec, zap.NewNop())(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if rec.calls != 0 {
		t.Error("sender called for bad payload")
	}
}
