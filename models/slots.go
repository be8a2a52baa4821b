package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is a bookable time of day in "HH:MM" form, e.g. "09:00".
type Slot string

// Minutes returns the slot's offset from midnight in minutes.
func (s Slot) Minutes() (int, error) {
	parts := strings.SplitN(string(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid slot %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid slot hour %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid slot minute %q", s)
	}
	return h*60 + m, nil
}

// SlotFromMinutes formats a minute-of-day offset as a Slot.
func SlotFromMinutes(minutes int) Slot {
	return Slot(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// SlotAvailability is one row of the public availability grid.
type SlotAvailability struct {
	Time      Slot `json:"time"`
	Available bool `json:"available"`
}
