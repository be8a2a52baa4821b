package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/database/repository"
	"slotbook/models"
)

type fakeGenerator struct {
	out   string
	err   error
	delay time.Duration
}

func (f *fakeGenerator) respond(ctx context.Context) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.out, f.err
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, _ string) (string, error) {
	return f.respond(ctx)
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, _ string) (string, error) {
	return f.respond(ctx)
}

func testCatalog() repository.CatalogRepository {
	return repository.NewMemoryCatalogRepo(repository.DefaultServices()...)
}

func TestGeminiExtractorParsesFencedJSON(t *testing.T) {
	gen := &fakeGenerator{out: "```json\n{\"service\": \"fade\", \"date\": \"tomorrow\", \"time_window\": null}\n```"}
	x, err := NewGeminiExtractor(gen, testCatalog(), time.Second).Extract(context.Background(), "fade tomorrow", "2030-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.Service == nil || *x.Service != "fade" || x.Date == nil || *x.Date != "tomorrow" || x.TimeWindow != nil {
		t.Fatalf("unexpected extraction: %+v", x)
	}
}

func TestGeminiExtractorBlankFieldsAreAbsent(t *testing.T) {
	gen := &fakeGenerator{out: `{"service": "", "date": "null", "time_window": "  "}`}
	x, err := NewGeminiExtractor(gen, testCatalog(), time.Second).Extract(context.Background(), "hi", "2030-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.HasAny() {
		t.Fatalf("expected no fields, got %+v", x)
	}
}

func TestGeminiExtractorMalformedOutput(t *testing.T) {
	gen := &fakeGenerator{out: "sure! the service is a fade"}
	_, err := NewGeminiExtractor(gen, testCatalog(), time.Second).Extract(context.Background(), "fade", "2030-01-10")
	var ue *models.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestGeminiExtractorTimeout(t *testing.T) {
	gen := &fakeGenerator{out: `{}`, delay: time.Second}
	start := time.Now()
	_, err := NewGeminiExtractor(gen, testCatalog(), 20*time.Millisecond).Extract(context.Background(), "fade", "2030-01-10")
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("extractor did not respect its timeout")
	}
}

func TestKeywordExtractor(t *testing.T) {
	ext := NewKeywordExtractor(testCatalog())
	ctx := context.Background()

	x, err := ext.Extract(ctx, "Book a haircut tomorrow morning", "2030-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.Service == nil || *x.Service != "Boys’ Haircut" {
		t.Fatalf("expected Boys’ Haircut, got %v", x.Service)
	}
	if x.Date == nil || *x.Date != "tomorrow" {
		t.Fatalf("expected tomorrow, got %v", x.Date)
	}
	if x.TimeWindow == nil || *x.TimeWindow != "morning" {
		t.Fatalf("expected morning, got %v", x.TimeWindow)
	}

	x, _ = ext.Extract(ctx, "fade on 2030-02-01 between 10-14", "2030-01-10")
	if x.Date == nil || *x.Date != "2030-02-01" || x.TimeWindow == nil || *x.TimeWindow != "between 10-14" {
		t.Fatalf("unexpected extraction: %+v", x)
	}

	for _, reply := range []string{"yes", "no", "10am", "at 10:00", "ok"} {
		x, _ = ext.Extract(ctx, reply, "2030-01-10")
		if x.HasAny() {
			t.Errorf("reply %q should extract nothing, got %+v", reply, x)
		}
	}
}

func TestClassifiers(t *testing.T) {
	ctx := context.Background()

	topic, err := NewGeminiClassifier(&fakeGenerator{out: " FAQ.\n"}, time.Second).Classify(ctx, "are you open sunday")
	if err != nil || topic != models.TopicFAQ {
		t.Fatalf("expected faq, got %q, %v", topic, err)
	}
	if _, err := NewGeminiClassifier(&fakeGenerator{out: "maybe"}, time.Second).Classify(ctx, "hmm"); err == nil {
		t.Fatal("expected error for an unknown label")
	}

	cases := map[string]models.Topic{
		"can I book a fade":            models.TopicBooking,
		"what are your opening hours?": models.TopicFAQ,
		"how much is a silk press":     models.TopicFAQ,
		"lovely weather":               models.TopicOther,
	}
	for text, want := range cases {
		if got, _ := (KeywordClassifier{}).Classify(ctx, text); got != want {
			t.Errorf("KeywordClassifier(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestFallbackFAQ(t *testing.T) {
	faq := FallbackFAQ{Primary: NewGeminiFAQ(&fakeGenerator{err: errors.New("quota")}, time.Second), Fallback: StaticFAQ{}}
	answer, err := faq.Answer(context.Background(), "what are your opening hours")
	if err != nil || answer != staticAnswers[0].answer {
		t.Fatalf("expected static hours answer, got %q, %v", answer, err)
	}
}
