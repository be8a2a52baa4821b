package models

import "time"

// Booking represents a confirmed reservation of one slot for one service.
type Booking struct {
	ID        string    `bson:"id" json:"id"`                           // Unique booking identifier (UUID)
	UserID    string    `bson:"user_id" json:"user_id"`                 // Owner of the booking
	Service   string    `bson:"service" json:"service"`                 // Service name as listed in the catalog
	Date      string    `bson:"date" json:"date"`                       // Booking date in "YYYY-MM-DD" format
	Slot      Slot      `bson:"slot" json:"time"`                       // Time of day, e.g. "14:00"
	Notes     *string   `bson:"notes,omitempty" json:"notes,omitempty"` // Optional free text from the customer
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ReservationRequest carries everything needed to attempt a reservation.
type ReservationRequest struct {
	UserID  string
	Service string
	Date    string
	Slot    Slot
	Notes   *string
}

// BookingInput is the body accepted by the direct booking endpoint.
type BookingInput struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Notes   string `json:"notes,omitempty"`
}
