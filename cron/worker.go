package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"slotbook/models"
	"slotbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker processes booking reminder tasks off the asynq queue.
type ReminderWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewReminderWorker(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *ReminderWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(logger))

	return &ReminderWorker{srv: srv, mux: mux, logger: logger}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.logger.Info("Starting reminder worker")
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start reminder worker: %w", err)
	}
	<-ctx.Done()
	w.srv.Shutdown()
	w.logger.Info("Reminder worker stopped")
	return nil
}

// HandleReminderTask delivers a reminder. Delivery channels are outside this
// service, so the reminder is recorded in the log.
func HandleReminderTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Booking reminder due",
			zap.String("bookingID", p.BookingID),
			zap.String("userID", p.UserID),
			zap.String("service", p.Service),
			zap.String("date", p.Date),
			zap.String("slot", string(p.Slot)))
		return nil
	}
}
