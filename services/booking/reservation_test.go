package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"slotbook/models"
)

func TestReserveValidationOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.ReservationRequest
		msg  string
	}{
		{"missing user", models.ReservationRequest{Service: "Fade", Date: "bad", Slot: "99:00"}, "missing field"},
		{"bad date before unknown slot", models.ReservationRequest{UserID: "u1", Service: "Fade", Date: "10/01/2030", Slot: "99:00"}, "bad date format"},
		{"unknown slot before past date", models.ReservationRequest{UserID: "u1", Service: "Fade", Date: "2020-01-01", Slot: "08:00"}, "unknown slot"},
		{"past date", models.ReservationRequest{UserID: "u1", Service: "Fade", Date: "2020-01-01", Slot: "10:00"}, "date in the past"},
		{"elapsed slot today", models.ReservationRequest{UserID: "u1", Service: "Fade", Date: "2030-01-10", Slot: "10:00"}, "date in the past"},
	}

	for _, tc := range cases {
		_, err := svc.Reserve(ctx, tc.req)
		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
			continue
		}
		if ve.Message != tc.msg {
			t.Errorf("%s: got %q, want %q", tc.name, ve.Message, tc.msg)
		}
	}
}

func TestReserveSchedulesReminder(t *testing.T) {
	svc, reminders := newTestService()
	notes := "first visit"

	booking, err := svc.Reserve(context.Background(), models.ReservationRequest{
		UserID: "u1", Service: "Fade", Date: "2030-01-10", Slot: "14:00", Notes: &notes,
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if booking.ID == "" || booking.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set, got %+v", booking)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0] != booking.ID {
		t.Fatalf("expected reminder for %s, got %v", booking.ID, reminders.scheduled)
	}
}

func TestReserveSucceedsWhenReminderFails(t *testing.T) {
	svc, reminders := newTestService()
	reminders.err = errors.New("queue down")

	if _, err := svc.Reserve(context.Background(), models.ReservationRequest{
		UserID: "u1", Service: "Fade", Date: "2030-01-11", Slot: "09:00",
	}); err != nil {
		t.Fatalf("reminder failure must not fail the booking: %v", err)
	}
}

func TestReserveConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := models.ReservationRequest{UserID: "u1", Service: "Fade", Date: "2030-01-11", Slot: "11:00"}
	if _, err := svc.Reserve(ctx, base); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	other := base
	other.UserID = "u2"
	_, err := svc.Reserve(ctx, other)
	var ce *models.ConflictError
	if !errors.As(err, &ce) || ce.Kind != models.ConflictServiceTaken {
		t.Fatalf("expected service-taken, got %v", err)
	}

	same := base
	same.Service = "Hair Spa"
	_, err = svc.Reserve(ctx, same)
	if !errors.As(err, &ce) || ce.Kind != models.ConflictUserDoubleBooked {
		t.Fatalf("expected user-double-booked, got %v", err)
	}
}

func TestReserveConcurrentExactlyOneWins(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const callers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Reserve(ctx, models.ReservationRequest{
				UserID: fmt.Sprintf("user-%d", i), Service: "Fade", Date: "2030-01-12", Slot: "15:00",
			})
			mu.Lock()
			defer mu.Unlock()
			var ce *models.ConflictError
			switch {
			case err == nil:
				wins++
			case errors.As(err, &ce) && ce.Kind == models.ConflictServiceTaken:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != callers-1 {
		t.Fatalf("expected 1 win and %d conflicts, got %d and %d", callers-1, wins, conflicts)
	}
}
