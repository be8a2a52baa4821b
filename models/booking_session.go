package models

import "time"

// DialoguePhase is the position of a booking conversation in its state machine.
type DialoguePhase string

const (
	PhaseCollectingService    DialoguePhase = "collecting_service"
	PhaseCollectingDate       DialoguePhase = "collecting_date"
	PhaseCollectingWindow     DialoguePhase = "collecting_window"
	PhasePresentingSlots      DialoguePhase = "presenting_slots"
	PhaseAwaitingConfirmation DialoguePhase = "awaiting_confirmation"

	// Terminal outcomes; only ever reported, never stored.
	PhaseBooked    DialoguePhase = "booked"
	PhaseCancelled DialoguePhase = "cancelled"
	PhaseExpired   DialoguePhase = "expired"
)

// IntentBooking is the only conversation intent currently tracked.
const IntentBooking = "booking"

// DialogueSession holds context between assistant turns until a booking is made.
type DialogueSession struct {
	ID             string        `json:"id"`
	Intent         string        `json:"intent"`
	Service        string        `json:"service,omitempty"`
	Date           string        `json:"date,omitempty"`
	TimeWindow     string        `json:"timeWindow,omitempty"`
	SelectedSlot   Slot          `json:"selectedSlot,omitempty"`
	AvailableSlots []Slot        `json:"availableSlots,omitempty"`
	SlotsComputed  bool          `json:"slotsComputed"`
	Phase          DialoguePhase `json:"phase"`
	CreatedAt      time.Time     `json:"createdAt"`
	LastActivity   time.Time     `json:"lastActivity"`
}

// Clone returns a deep copy so callers can mutate a session without touching the stored one.
func (s *DialogueSession) Clone() *DialogueSession {
	if s == nil {
		return nil
	}
	cp := *s
	if s.AvailableSlots != nil {
		cp.AvailableSlots = append([]Slot(nil), s.AvailableSlots...)
	}
	return &cp
}

// Offers reports whether slot is in the currently offered candidate list.
func (s *DialogueSession) Offers(slot Slot) bool {
	for _, c := range s.AvailableSlots {
		if c == slot {
			return true
		}
	}
	return false
}

// InvalidateSlots drops the cached candidates and any pick made from them.
func (s *DialogueSession) InvalidateSlots() {
	s.AvailableSlots = nil
	s.SlotsComputed = false
	s.SelectedSlot = ""
}
