package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"slotbook/models"
)

func TestNewReminderTask(t *testing.T) {
	payload := models.ReminderPayload{BookingID: "b1", UserID: "u1", Service: "Fade", Date: "2030-01-11", Slot: "10:00"}
	task, opts, err := NewReminderTask(payload, time.Date(2030, 1, 11, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TypeSendReminder {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	var got models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &got); err != nil || got != payload {
		t.Fatalf("payload round trip failed: %+v, %v", got, err)
	}

	foundID := false
	for _, o := range opts {
		if o.Value() == ReminderTaskID("b1") {
			foundID = true
		}
	}
	if !foundID {
		t.Fatal("expected the task id option to be set")
	}
}

func TestReminderFireAt(t *testing.T) {
	start := time.Date(2030, 1, 11, 10, 0, 0, 0, time.UTC)

	early := time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)
	if got := reminderFireAt(start, time.Hour, early); !got.Equal(start.Add(-time.Hour)) {
		t.Fatalf("expected one hour before start, got %v", got)
	}

	late := time.Date(2030, 1, 11, 9, 30, 0, 0, time.UTC)
	if got := reminderFireAt(start, time.Hour, late); !got.Equal(late) {
		t.Fatalf("expected immediate reminder, got %v", got)
	}
}
