package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotbook/models"

	"go.uber.org/zap"
)

// FAQResponder answers free-text questions about the salon.
type FAQResponder interface {
	Answer(ctx context.Context, question string) (string, error)
}

type GeminiFAQ struct {
	gen     TextGenerator
	timeout time.Duration
}

func NewGeminiFAQ(gen TextGenerator, timeout time.Duration) *GeminiFAQ {
	return &GeminiFAQ{gen: gen, timeout: timeout}
}

const faqPrompt = `You answer customer questions for a hair salon. Appointments run hourly from 09:00 to 17:00
and can be booked through this chat. Answer briefly and politely. If you do not know, say so
and suggest contacting the salon.
Question: %q`

func (f *GeminiFAQ) Answer(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.gen.GenerateContent(ctx, fmt.Sprintf(faqPrompt, question))
	if err != nil {
		return "", &models.UpstreamError{Collaborator: "faq", Err: err}
	}
	return strings.TrimSpace(out), nil
}

// StaticFAQ answers from a small keyword table.
type StaticFAQ struct{}

var staticAnswers = []struct {
	keywords []string
	answer   string
}{
	{[]string{"open", "hours", "close", "closing"}, "We take appointments every hour from 09:00 to 17:00."},
	{[]string{"cancel", "refund"}, "You can cancel a booking from My Bookings any time before it starts."},
	{[]string{"price", "cost", "how much"}, "Prices depend on the service and hair length. Our stylists confirm the price at your appointment."},
	{[]string{"where", "location", "address", "parking"}, "You'll find our address and parking details on the Contact page."},
	{[]string{"service", "offer"}, "Ask me to book anything from our menu, such as a Fade, Silk Press or Hair Spa, and I'll find you a time."},
}

func (StaticFAQ) Answer(_ context.Context, question string) (string, error) {
	q := strings.ToLower(question)
	for _, entry := range staticAnswers {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.answer, nil
			}
		}
	}
	return "I can help you book an appointment. Just tell me the service and the day you'd like.", nil
}

// FallbackFAQ tries Primary and answers from Fallback when it fails.
type FallbackFAQ struct {
	Primary  FAQResponder
	Fallback FAQResponder
	Logger   *zap.Logger
}

func (f FallbackFAQ) Answer(ctx context.Context, question string) (string, error) {
	answer, err := f.Primary.Answer(ctx, question)
	if err == nil && answer != "" {
		return answer, nil
	}
	if err != nil && f.Logger != nil {
		f.Logger.Warn("FAQ responder failed, using fallback", zap.Error(err))
	}
	return f.Fallback.Answer(ctx, question)
}
