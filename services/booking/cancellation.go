package booking

import (
	"context"
	"fmt"

	"slotbook/models"

	"go.uber.org/zap"
)

// Cancel deletes a booking on behalf of its owner or an admin, as long as the slot
// has not started yet.
func (s *DefaultBookingService) Cancel(ctx context.Context, caller models.Identity, bookingID string) error {
	booking, err := s.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != caller.UserID && !caller.IsAdmin() {
		return &models.PermissionError{Action: "cancel booking " + bookingID}
	}

	start, err := SlotStart(booking.Date, booking.Slot, s.Location)
	if err != nil {
		return fmt.Errorf("stored booking %s has an unreadable date or slot: %w", bookingID, err)
	}
	if !start.After(s.now()) {
		return models.NewValidationError("booking", "booking already started")
	}

	if err := s.Repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.Logger.Info("Booking cancelled", zap.String("bookingID", bookingID), zap.String("by", caller.UserID))

	if s.Reminders != nil {
		if err := s.Reminders.Cancel(ctx, bookingID); err != nil {
			s.Logger.Warn("Failed to remove booking reminder", zap.String("bookingID", bookingID), zap.Error(err))
		}
	}
	return nil
}

// ListForUser returns the caller's own bookings.
func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, models.NewValidationError("user", "missing field")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// ListAll returns every booking, optionally for a single date.
func (s *DefaultBookingService) ListAll(ctx context.Context, date string) ([]models.Booking, error) {
	return s.Repo.ListAll(ctx, date)
}
