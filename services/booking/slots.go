package booking

import (
	"regexp"
	"strconv"
	"strings"

	"slotbook/models"
)

// DefaultCatalog is the fixed daily slot list, one slot per hour from 09:00 to 17:00.
var DefaultCatalog = []models.Slot{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00",
}

// IsCatalogSlot reports whether slot is one of the bookable times.
func IsCatalogSlot(slot models.Slot) bool {
	for _, s := range DefaultCatalog {
		if s == slot {
			return true
		}
	}
	return false
}

const hourExpr = `(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`

var (
	betweenRe = regexp.MustCompile(`\b(?:between|from)\s+` + hourExpr + `\s*(?:-|to|and)\s*` + hourExpr + `\b`)
	afterRe   = regexp.MustCompile(`\b(?:after|from)\s+` + hourExpr + `\b`)
	beforeRe  = regexp.MustCompile(`\b(?:before|until|by)\s+` + hourExpr + `\b`)
	morningRe = regexp.MustCompile(`\bmorning\b`)
	noonRe    = regexp.MustCompile(`\bafternoon\b`)
)

// window is a half-open [from, to) range in minutes since midnight.
type window struct {
	from, to int
}

func (w window) contains(minutes int) bool {
	return minutes >= w.from && minutes < w.to
}

// FilterSlots narrows catalog to the slots inside a free-text time window such as
// "after 2pm", "before 11", "between 10-14" or "this afternoon". Unrecognised text
// keeps the whole catalog.
func FilterSlots(catalog []models.Slot, timeWindow string) []models.Slot {
	w, ok := parseWindow(timeWindow)
	out := make([]models.Slot, 0, len(catalog))
	for _, slot := range catalog {
		minutes, err := slot.Minutes()
		if err != nil {
			continue
		}
		if !ok || w.contains(minutes) {
			out = append(out, slot)
		}
	}
	return out
}

// parseWindow reports the minute range described by text and whether it was understood.
func parseWindow(text string) (window, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return window{}, false
	}

	if m := betweenRe.FindStringSubmatch(t); m != nil {
		from, ok1 := toMinutes(m[1], m[2], m[3])
		to, ok2 := toMinutes(m[4], m[5], m[6])
		if ok1 && ok2 {
			return window{from: from, to: to}, true
		}
	}
	if m := afterRe.FindStringSubmatch(t); m != nil {
		if from, ok := toMinutes(m[1], m[2], m[3]); ok {
			return window{from: from, to: 24 * 60}, true
		}
	}
	if m := beforeRe.FindStringSubmatch(t); m != nil {
		if to, ok := toMinutes(m[1], m[2], m[3]); ok {
			return window{from: 0, to: to}, true
		}
	}
	switch {
	case morningRe.MatchString(t):
		return window{from: 9 * 60, to: 12 * 60}, true
	case noonRe.MatchString(t):
		return window{from: 12 * 60, to: 17 * 60}, true
	}
	return window{}, false
}

// ParseClock reads a single time of day ("10", "10am", "2:30pm", "14:00").
func ParseClock(text string) (int, bool) {
	m := clockRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return 0, false
	}
	return toMinutes(m[1], m[2], m[3])
}

var clockRe = regexp.MustCompile(`^(?:at\s+)?` + hourExpr + `$`)

// toMinutes converts the captured hour, minute and meridiem into minutes since midnight.
func toMinutes(hourStr, minStr, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, false
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute > 59 {
			return 0, false
		}
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, false
		}
	}
	return hour*60 + minute, true
}
