package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/models"
	"slotbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleReminderTaskLogsReminder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := HandleReminderTask(zap.New(core))

	task, _, err := tasks.NewReminderTask(models.ReminderPayload{BookingID: "b1", Service: "Fade"}, time.Now())
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("Booking reminder due").All()
	if len(entries) != 1 || entries[0].ContextMap()["bookingID"] != "b1" {
		t.Fatalf("expected one reminder log for b1, got %v", entries)
	}
}

func TestHandleReminderTaskSkipsBadPayload(t *testing.T) {
	handler := HandleReminderTask(zap.NewNop())
	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeSendReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
