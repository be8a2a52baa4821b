package schedulerRepo

import (
	"context"

	"slotbook/models"
)

// BookingRepository is the persistent booking store used by availability, reservation
// and cancellation. ReserveTransactionally is the only way a booking gets written.
type BookingRepository interface {
	// FindByServiceDate returns every booking for one service on one date.
	FindByServiceDate(ctx context.Context, service, date string) ([]models.Booking, error)
	// FindByUserSlot returns the user's booking at (date, slot), or nil when there is none.
	FindByUserSlot(ctx context.Context, userID, date string, slot models.Slot) (*models.Booking, error)
	// ReserveTransactionally checks both booking invariants and inserts the booking as one
	// isolated unit. A lost race is reported as *models.ConflictError.
	ReserveTransactionally(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// ListAll returns all bookings, limited to one date when date is non-empty.
	ListAll(ctx context.Context, date string) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	EnsureIndexes(ctx context.Context) error
}
