package models

// ReminderPayload is the asynq task body for an upcoming-booking reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Service   string `json:"service"`
	Date      string `json:"date"`
	Slot      Slot   `json:"slot"`
}
