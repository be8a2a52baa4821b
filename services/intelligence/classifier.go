package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"slotbook/models"
)

// TopicClassifier labels a message as booking, faq or other.
type TopicClassifier interface {
	Classify(ctx context.Context, text string) (models.Topic, error)
}

type GeminiClassifier struct {
	gen     TextGenerator
	timeout time.Duration
}

func NewGeminiClassifier(gen TextGenerator, timeout time.Duration) *GeminiClassifier {
	return &GeminiClassifier{gen: gen, timeout: timeout}
}

const classifyPrompt = `Classify this message sent to a hair salon assistant.
Answer with exactly one word:
booking - the customer wants to book, pick or confirm an appointment time
faq - a question about the salon (prices, opening hours, location, policies, services)
other - anything else
Message: %q`

func (c *GeminiClassifier) Classify(ctx context.Context, text string) (models.Topic, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.gen.GenerateContent(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		return "", &models.UpstreamError{Collaborator: "classifier", Err: err}
	}
	label := strings.ToLower(strings.Trim(strings.TrimSpace(out), ".\"'`"))
	switch models.Topic(label) {
	case models.TopicBooking, models.TopicFAQ, models.TopicOther:
		return models.Topic(label), nil
	}
	return "", &models.UpstreamError{Collaborator: "classifier", Err: fmt.Errorf("unexpected label %q", out)}
}

var (
	bookingKeywordRe = regexp.MustCompile(`\b(book|booking|appointment|reserve|reservation|schedule|slot|slots|available|availability)\b`)
	faqKeywordRe     = regexp.MustCompile(`\b(price|prices|cost|costs|how much|open|opening|hours|close|closing|where|location|address|parking|policy|pay|payment|deposit|refund)\b`)
)

func hasBookingKeyword(text string) bool {
	return bookingKeywordRe.MatchString(strings.ToLower(text))
}

// KeywordClassifier is the rule-based fallback.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, text string) (models.Topic, error) {
	return keywordTopic(text), nil
}

func keywordTopic(text string) models.Topic {
	t := strings.ToLower(text)
	switch {
	case bookingKeywordRe.MatchString(t):
		return models.TopicBooking
	case faqKeywordRe.MatchString(t), strings.HasSuffix(strings.TrimSpace(t), "?"):
		return models.TopicFAQ
	}
	return models.TopicOther
}
