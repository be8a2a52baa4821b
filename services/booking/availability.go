package booking

import (
	"context"
	"fmt"
	"time"

	"slotbook/models"
)

// AvailableSlots filters candidates down to the ones still open for service on date.
// Booked slots are removed, and on today's date so is every slot that has already begun.
// The result is advisory; Reserve is the authority.
func (s *DefaultBookingService) AvailableSlots(ctx context.Context, service, date string, candidates []models.Slot) ([]models.Slot, error) {
	day, err := time.ParseInLocation(dateLayout, date, s.Location)
	if err != nil {
		return nil, models.NewValidationError("date", "bad date format")
	}

	now := s.now()
	today := now.Format(dateLayout)
	if day.Format(dateLayout) < today {
		return []models.Slot{}, nil
	}

	existing, err := s.Repo.FindByServiceDate(ctx, service, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s on %s: %w", service, date, err)
	}
	reserved := make(map[models.Slot]struct{}, len(existing))
	for _, b := range existing {
		reserved[b.Slot] = struct{}{}
	}

	open := make([]models.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if _, taken := reserved[slot]; taken {
			continue
		}
		if date == today {
			start, err := SlotStart(date, slot, s.Location)
			if err != nil || !start.After(now) {
				continue
			}
		}
		open = append(open, slot)
	}
	return open, nil
}

// AvailabilityGrid reports every slot in the window with whether it can still be booked.
func (s *DefaultBookingService) AvailabilityGrid(ctx context.Context, service, date, timeWindow string) ([]models.SlotAvailability, error) {
	if service == "" || date == "" {
		return nil, models.NewValidationError("", "service and date are required")
	}

	candidates := FilterSlots(DefaultCatalog, timeWindow)
	open, err := s.AvailableSlots(ctx, service, date, candidates)
	if err != nil {
		return nil, err
	}
	isOpen := make(map[models.Slot]bool, len(open))
	for _, slot := range open {
		isOpen[slot] = true
	}

	grid := make([]models.SlotAvailability, 0, len(candidates))
	for _, slot := range candidates {
		grid = append(grid, models.SlotAvailability{Time: slot, Available: isOpen[slot]})
	}
	return grid, nil
}
