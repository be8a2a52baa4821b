package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"slotbook/database/repository"
	"slotbook/models"
)

// IntentExtractor pulls service, date and time window out of one message.
// Fields it cannot find are left nil.
type IntentExtractor interface {
	Extract(ctx context.Context, text string, today string) (models.ExtractedIntent, error)
}

// GeminiExtractor asks the model for a JSON reading of the message.
type GeminiExtractor struct {
	gen     JSONGenerator
	catalog repository.CatalogRepository
	timeout time.Duration
}

func NewGeminiExtractor(gen JSONGenerator, catalog repository.CatalogRepository, timeout time.Duration) *GeminiExtractor {
	return &GeminiExtractor{gen: gen, catalog: catalog, timeout: timeout}
}

const extractPrompt = `You read messages sent to a hair salon's booking assistant.
Today is %s. Services offered: %s.
Return only a JSON object with the keys "service", "date" and "time_window".
- service: the service the customer mentions, as they wrote it, or null.
- date: the day they want as YYYY-MM-DD (resolve words like "friday" against today), "today", "tomorrow", or null.
- time_window: the time of day they want, e.g. "morning", "afternoon", "after 2pm", "before 11", "between 10-14", or null.
Message: %q`

func (e *GeminiExtractor) Extract(ctx context.Context, text string, today string) (models.ExtractedIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	names := "unknown"
	if services, err := e.catalog.ListActive(ctx); err == nil {
		names = strings.Join(serviceNames(services), ", ")
	}

	raw, err := e.gen.GenerateJSON(ctx, fmt.Sprintf(extractPrompt, today, names, text))
	if err != nil {
		return models.ExtractedIntent{}, &models.UpstreamError{Collaborator: "intent extractor", Err: err}
	}
	return parseExtraction(raw)
}

func parseExtraction(raw string) (models.ExtractedIntent, error) {
	var out models.ExtractedIntent
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return models.ExtractedIntent{}, &models.UpstreamError{
			Collaborator: "intent extractor",
			Err:          fmt.Errorf("malformed extraction %q: %w", raw, err),
		}
	}
	out.Service = blankToNil(out.Service)
	out.Date = blankToNil(out.Date)
	out.TimeWindow = blankToNil(out.TimeWindow)
	return out, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

var (
	isoDateRe  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	relDateRe  = regexp.MustCompile(`\b(today|tomorrow)\b`)
	clockExpr  = `\d{1,2}(?::\d{2})?\s*(?:am|pm)?`
	timeWinRe  = regexp.MustCompile(`\b(?:(?:between|from)\s+` + clockExpr + `\s*(?:-|to|and)\s*` + clockExpr + `|(?:after|before|until|by)\s+` + clockExpr + `|(?:this\s+|in\s+the\s+)?(?:morning|afternoon))\b`)
	fillerWord = map[string]bool{}
)

func init() {
	for _, w := range strings.Fields(`i id im i'd like would want wanna to a an the book booking appointment
		for me please can could you get schedule make on at in this next some time slot slots need my and
		reserve reservation hi hello hey is there any available availability do have got of with it
		yes yep yeah no nope ok okay thanks thank`) {
		fillerWord[w] = true
	}
}

// KeywordExtractor is the local extractor used without an LLM. It recognises ISO
// dates, today/tomorrow, the window phrases FilterSlots understands, and service
// names that resolve against the active catalog.
type KeywordExtractor struct {
	catalog repository.CatalogRepository
}

func NewKeywordExtractor(catalog repository.CatalogRepository) *KeywordExtractor {
	return &KeywordExtractor{catalog: catalog}
}

func (k *KeywordExtractor) Extract(ctx context.Context, text string, _ string) (models.ExtractedIntent, error) {
	var out models.ExtractedIntent
	t := strings.ToLower(text)

	if m := isoDateRe.FindString(t); m != "" {
		out.Date = &m
		t = strings.Replace(t, m, " ", 1)
	} else if m := relDateRe.FindString(t); m != "" {
		out.Date = &m
		t = strings.Replace(t, m, " ", 1)
	}

	if m := timeWinRe.FindString(t); m != "" {
		w := strings.TrimSpace(m)
		out.TimeWindow = &w
		t = strings.Replace(t, m, " ", 1)
	}

	var rest []string
	for _, w := range normalizeWords(t) {
		if !fillerWord[w] {
			rest = append(rest, w)
		}
	}
	if len(rest) > 0 {
		services, err := k.catalog.ListActive(ctx)
		if err != nil {
			return out, fmt.Errorf("list services: %w", err)
		}
		if svc, ok := MatchService(strings.Join(rest, " "), services); ok {
			name := svc.Name
			out.Service = &name
		}
	}
	return out, nil
}
