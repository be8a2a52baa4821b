package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotbook/models"
)

// Phraser words the slot offer shown to the customer.
type Phraser interface {
	PhraseSlots(ctx context.Context, service, date string, slots []models.Slot) (string, error)
}

type GeminiPhraser struct {
	gen     TextGenerator
	timeout time.Duration
}

func NewGeminiPhraser(gen TextGenerator, timeout time.Duration) *GeminiPhraser {
	return &GeminiPhraser{gen: gen, timeout: timeout}
}

const phrasePrompt = `You are a friendly hair salon booking assistant. In one or two short sentences,
tell the customer these %s times are open on %s and ask which one they want.
List every time exactly as written, in this order: %s. No other times.`

func (p *GeminiPhraser) PhraseSlots(ctx context.Context, service, date string, slots []models.Slot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.gen.GenerateContent(ctx, fmt.Sprintf(phrasePrompt, service, date, joinSlots(slots)))
	if err != nil {
		return "", &models.UpstreamError{Collaborator: "phraser", Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &models.UpstreamError{Collaborator: "phraser", Err: fmt.Errorf("empty reply")}
	}
	return out, nil
}

// TemplatePhraser needs no network.
type TemplatePhraser struct{}

func (TemplatePhraser) PhraseSlots(_ context.Context, service, date string, slots []models.Slot) (string, error) {
	return fmt.Sprintf("Here are the available %s times on %s: %s. Which one would you like?",
		service, date, joinSlots(slots)), nil
}

func joinSlots(slots []models.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
