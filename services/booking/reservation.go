package booking

import (
	"context"
	"strings"
	"time"

	"slotbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reserve validates the request and commits it through the repository's atomic
// check-and-insert. Losing a race surfaces as *models.ConflictError.
func (s *DefaultBookingService) Reserve(ctx context.Context, req models.ReservationRequest) (*models.Booking, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Service = strings.TrimSpace(req.Service)
	req.Date = strings.TrimSpace(req.Date)
	req.Slot = models.Slot(strings.TrimSpace(string(req.Slot)))

	if req.UserID == "" || req.Service == "" || req.Date == "" || req.Slot == "" {
		return nil, models.NewValidationError("", "missing field")
	}
	if _, err := time.ParseInLocation(dateLayout, req.Date, s.Location); err != nil {
		return nil, models.NewValidationError("date", "bad date format")
	}
	if !IsCatalogSlot(req.Slot) {
		return nil, models.NewValidationError("slot", "unknown slot")
	}
	start, err := SlotStart(req.Date, req.Slot, s.Location)
	if err != nil {
		return nil, models.NewValidationError("slot", "unknown slot")
	}
	now := s.now()
	if !start.After(now) {
		return nil, models.NewValidationError("date", "date in the past")
	}

	booking := &models.Booking{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Service:   req.Service,
		Date:      req.Date,
		Slot:      req.Slot,
		Notes:     req.Notes,
		CreatedAt: now.UTC(),
	}
	if err := s.Repo.ReserveTransactionally(ctx, booking); err != nil {
		return nil, err
	}

	s.Logger.Info("Booking reserved",
		zap.String("bookingID", booking.ID),
		zap.String("userID", booking.UserID),
		zap.String("service", booking.Service),
		zap.String("date", booking.Date),
		zap.String("slot", string(booking.Slot)))

	if s.Reminders != nil {
		if err := s.Reminders.Schedule(ctx, *booking); err != nil {
			s.Logger.Warn("Failed to schedule booking reminder", zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	return booking, nil
}
