package booking

import (
	"context"
	"sync"
	"time"

	"slotbook/database/repository"
	"slotbook/models"

	"go.uber.org/zap"
)

// fixedNow is 10:30 on 2030-01-10 UTC.
var fixedNow = time.Date(2030, 1, 10, 10, 30, 0, 0, time.UTC)

type fakeReminders struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
	err       error
}

func (f *fakeReminders) Schedule(_ context.Context, b models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, b.ID)
	return f.err
}

func (f *fakeReminders) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return f.err
}

func newTestService() (*DefaultBookingService, *fakeReminders) {
	reminders := &fakeReminders{}
	svc := NewBookingService(repository.NewMemorySchedulerRepo(), reminders, zap.NewNop(), time.UTC)
	svc.Now = func() time.Time { return fixedNow }
	return svc, reminders
}
