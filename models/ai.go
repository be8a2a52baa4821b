package models

// AIRequest is the payload coming from the frontend into /api/assistant.
type AIRequest struct {
	Message   string `json:"message"`              // user’s message
	Query     string `json:"query,omitempty"`      // legacy field name used by the assistant widget
	SessionID string `json:"session_id,omitempty"` // returned by the previous turn while a dialogue is open
}

// Text returns whichever message field the client filled in.
func (r AIRequest) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Query
}

// AIResponse is what the assistant handler returns to the frontend.
type AIResponse struct {
	Intent         string        `json:"intent"`                    // "booking" or "faq"
	Message        string        `json:"message"`                   // natural‐language reply
	SessionID      string        `json:"session_id,omitempty"`      // present while a dialogue is open
	Phase          DialoguePhase `json:"phase,omitempty"`           // dialogue phase after this turn
	AvailableSlots []Slot        `json:"available_slots,omitempty"` // offered candidates, if any
	Booking        *Booking      `json:"booking,omitempty"`         // set only on a successful reservation
}

// ExtractedIntent is the best-effort structured reading of one user message.
// Every field is optional; nil means the extractor found nothing for it.
type ExtractedIntent struct {
	Service    *string `json:"service,omitempty"`
	Date       *string `json:"date,omitempty"`
	TimeWindow *string `json:"time_window,omitempty"`
}

// HasAny reports whether at least one field was extracted.
func (e ExtractedIntent) HasAny() bool {
	return e.Service != nil || e.Date != nil || e.TimeWindow != nil
}

// Topic is the coarse label produced by the message classifier.
type Topic string

const (
	TopicBooking Topic = "booking"
	TopicFAQ     Topic = "faq"
	TopicOther   Topic = "other"
)

// FAQRequest is the body accepted by /api/faq.
type FAQRequest struct {
	Question string `json:"question"`
	Query    string `json:"query,omitempty"`
}
