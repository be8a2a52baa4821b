package schedulerRepo

import (
	"context"
	"sort"
	"sync"

	"slotbook/models"
)

// MemorySchedulerRepo keeps bookings in process memory. It backs STORAGE_DRIVER=memory
// for local runs and tests; ReserveTransactionally holds one mutex across both checks
// and the insert.
type MemorySchedulerRepo struct {
	mu       sync.RWMutex
	bookings []models.Booking
}

func NewMemorySchedulerRepo() *MemorySchedulerRepo {
	return &MemorySchedulerRepo{}
}

func (repo *MemorySchedulerRepo) FindByServiceDate(_ context.Context, service, date string) ([]models.Booking, error) {
	return repo.filter(func(b models.Booking) bool {
		return b.Service == service && b.Date == date
	}), nil
}

func (repo *MemorySchedulerRepo) FindByUserSlot(_ context.Context, userID, date string, slot models.Slot) (*models.Booking, error) {
	matches := repo.filter(func(b models.Booking) bool {
		return b.UserID == userID && b.Date == date && b.Slot == slot
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (repo *MemorySchedulerRepo) ReserveTransactionally(_ context.Context, booking *models.Booking) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, b := range repo.bookings {
		if b.Date == booking.Date && b.Slot == booking.Slot && b.Service == booking.Service {
			return conflict(models.ConflictServiceTaken, booking)
		}
	}
	for _, b := range repo.bookings {
		if b.Date == booking.Date && b.Slot == booking.Slot && b.UserID == booking.UserID {
			return conflict(models.ConflictUserDoubleBooked, booking)
		}
	}
	repo.bookings = append(repo.bookings, *booking)
	return nil
}

func (repo *MemorySchedulerRepo) GetBookingByID(_ context.Context, bookingID string) (*models.Booking, error) {
	matches := repo.filter(func(b models.Booking) bool { return b.ID == bookingID })
	if len(matches) == 0 {
		return nil, &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	return &matches[0], nil
}

func (repo *MemorySchedulerRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return repo.filter(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (repo *MemorySchedulerRepo) ListAll(_ context.Context, date string) ([]models.Booking, error) {
	return repo.filter(func(b models.Booking) bool { return date == "" || b.Date == date }), nil
}

func (repo *MemorySchedulerRepo) DeleteBooking(_ context.Context, bookingID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, b := range repo.bookings {
		if b.ID == bookingID {
			repo.bookings = append(repo.bookings[:i], repo.bookings[i+1:]...)
			return nil
		}
	}
	return &models.NotFoundError{Resource: "booking", ID: bookingID}
}

func (repo *MemorySchedulerRepo) EnsureIndexes(context.Context) error {
	return nil
}

// filter returns matching bookings sorted by date, slot and service.
func (repo *MemorySchedulerRepo) filter(keep func(models.Booking) bool) []models.Booking {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range repo.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		return out[i].Service < out[j].Service
	})
	return out
}
