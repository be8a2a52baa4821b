package booking

import (
	"context"
	"time"

	"slotbook/database/repository"
	"slotbook/models"

	"go.uber.org/zap"
)

// BookingService covers availability, reservation and cancellation of salon slots.
type BookingService interface {
	AvailableSlots(ctx context.Context, service, date string, candidates []models.Slot) ([]models.Slot, error)
	AvailabilityGrid(ctx context.Context, service, date, timeWindow string) ([]models.SlotAvailability, error)
	Reserve(ctx context.Context, req models.ReservationRequest) (*models.Booking, error)
	Cancel(ctx context.Context, caller models.Identity, bookingID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context, date string) ([]models.Booking, error)
}

// ReminderScheduler queues and withdraws the reminder sent ahead of a booking.
type ReminderScheduler interface {
	Schedule(ctx context.Context, booking models.Booking) error
	Cancel(ctx context.Context, bookingID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      repository.BookingRepository
	Reminders ReminderScheduler // optional
	Logger    *zap.Logger
	Location  *time.Location
	Now       func() time.Time
}

// NewBookingService wires a DefaultBookingService that evaluates dates in loc.
func NewBookingService(repo repository.BookingRepository, reminders ReminderScheduler, logger *zap.Logger, loc *time.Location) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &DefaultBookingService{
		Repo:      repo,
		Reminders: reminders,
		Logger:    logger,
		Location:  loc,
		Now:       time.Now,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Location)
	}
	return s.Now().In(s.Location)
}

// Today returns the current date in the service's timezone as YYYY-MM-DD.
func (s *DefaultBookingService) Today() string {
	return s.now().Format(dateLayout)
}

const dateLayout = "2006-01-02"

// SlotStart returns the instant slot begins on date, read in loc.
func SlotStart(date string, slot models.Slot, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := slot.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
