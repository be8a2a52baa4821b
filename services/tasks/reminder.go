package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotbook/models"
	"slotbook/services/booking"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder = "reminder:send"
	reminderQueue    = "default"
)

// ReminderTaskID is the asynq task id for a booking's reminder, so it can be found
// again on cancellation.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.Queue(reminderQueue),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// reminderFireAt is lead before the slot starts, but never earlier than now.
func reminderFireAt(start time.Time, lead time.Duration, now time.Time) time.Time {
	fireAt := start.Add(-lead)
	if fireAt.Before(now) {
		return now
	}
	return fireAt
}

// AsynqReminderScheduler queues booking reminders on the asynq Redis queue.
type AsynqReminderScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	lead      time.Duration
	loc       *time.Location
	now       func() time.Time
}

func NewAsynqReminderScheduler(redisOpt asynq.RedisClientOpt, lead time.Duration, loc *time.Location) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		lead:      lead,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *AsynqReminderScheduler) Schedule(ctx context.Context, b models.Booking) error {
	start, err := booking.SlotStart(b.Date, b.Slot, s.loc)
	if err != nil {
		return fmt.Errorf("reminder for booking %s: %w", b.ID, err)
	}

	payload := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		Service:   b.Service,
		Date:      b.Date,
		Slot:      b.Slot,
	}
	task, opts, err := NewReminderTask(payload, reminderFireAt(start, s.lead, s.now()))
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder for booking %s: %w", b.ID, err)
	}
	return nil
}

// Cancel removes a pending reminder. A reminder that already fired or never
// existed is not an error.
func (s *AsynqReminderScheduler) Cancel(_ context.Context, bookingID string) error {
	err := s.inspector.DeleteTask(reminderQueue, ReminderTaskID(bookingID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("delete reminder for booking %s: %w", bookingID, err)
}

func (s *AsynqReminderScheduler) Close() error {
	if err := s.inspector.Close(); err != nil {
		return err
	}
	return s.client.Close()
}
