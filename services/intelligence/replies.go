package ai

import (
	"fmt"
	"regexp"
	"strings"

	"slotbook/models"
)

var (
	affirmatives = []string{"yes", "yep", "yeah", "confirm", "book it", "go ahead", "ok", "okay"}
	negatives    = []string{"no", "nope", "not now", "cancel", "stop", "change"}

	replyPunct = regexp.MustCompile(`[^a-z0-9: ]+`)
)

func normalizeReply(text string) string {
	t := replyPunct.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Join(strings.Fields(t), " ")
}

func matchesVocab(text string, vocab []string) bool {
	t := normalizeReply(text)
	for _, v := range vocab {
		if t == v || strings.HasPrefix(t, v+" ") {
			return true
		}
	}
	return false
}

func isAffirmative(text string) bool { return matchesVocab(text, affirmatives) }

func isNegative(text string) bool { return matchesVocab(text, negatives) }

func askService(services []models.Service) string {
	return fmt.Sprintf("Which service would you like to book? We offer: %s.", strings.Join(serviceNames(services), ", "))
}

func unknownService(phrase string, services []models.Service) string {
	return fmt.Sprintf("Sorry, we don't offer %q. We offer: %s.", phrase, strings.Join(serviceNames(services), ", "))
}

func askDate(service string) string {
	return fmt.Sprintf("What day would you like your %s? You can say today, tomorrow or a date like 2025-06-14.", service)
}

func askWindow(service, date string) string {
	return fmt.Sprintf("What time of day suits you for %s on %s? For example morning, afternoon or after 2pm.", service, date)
}

func noAvailability(s *models.DialogueSession) string {
	return fmt.Sprintf("Sorry, there are no %s slots left on %s for that time. Would you like to try another day?", s.Service, s.Date)
}

func singleOffer(s *models.DialogueSession) string {
	return fmt.Sprintf("The only %s time left on %s is %s. Shall I book it for you? (yes/no)", s.Service, s.Date, s.AvailableSlots[0])
}

func confirmPrompt(s *models.DialogueSession) string {
	return fmt.Sprintf("Great, %s on %s at %s. Shall I book it? (yes/no)", s.Service, s.Date, s.SelectedSlot)
}

func confirmReprompt(s *models.DialogueSession) string {
	return fmt.Sprintf("Please reply yes to book %s at %s, or no to choose another time.", s.Service, s.SelectedSlot)
}

func loginPrompt(s *models.DialogueSession) string {
	return fmt.Sprintf("Please log in to finish booking %s on %s at %s. I'll keep your selection until you're back.", s.Service, s.Date, s.SelectedSlot)
}

func bookedMessage(b *models.Booking) string {
	return fmt.Sprintf("You're booked! %s on %s at %s.", b.Service, b.Date, b.Slot)
}

func conflictApology(ce *models.ConflictError) string {
	if ce.Kind == models.ConflictUserDoubleBooked {
		return fmt.Sprintf("You already have an appointment at %s on %s.", ce.Slot, ce.Date)
	}
	return fmt.Sprintf("Sorry, %s on %s was just taken.", ce.Slot, ce.Date)
}

func anotherDayPrompt() string {
	return "No problem. Pick one of these, or tell me another day or time of day and I'll check again."
}

const apology = "Sorry, something went wrong on our side. Please try again in a moment."

func withPrefix(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + " " + msg
}
