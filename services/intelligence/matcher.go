package ai

import (
	"regexp"
	"strings"

	"slotbook/models"
)

const overlapThreshold = 0.6

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeWords lower-cases text, drops apostrophes, splits on anything that is not
// a letter or digit and folds simple plurals ("haircuts" -> "haircut").
func normalizeWords(text string) []string {
	t := strings.ToLower(text)
	t = strings.NewReplacer("'", "", "’", "").Replace(t)
	t = nonAlnum.ReplaceAllString(t, " ")

	words := strings.Fields(t)
	for i, w := range words {
		if len(w) > 3 && strings.HasSuffix(w, "s") {
			words[i] = strings.TrimSuffix(w, "s")
		}
	}
	return words
}

// MatchService resolves a free-text phrase to a catalog service. Substring
// containment in either direction wins first, in catalog order; failing that, the
// first service whose word overlap with the phrase reaches 60% is chosen.
func MatchService(phrase string, services []models.Service) (models.Service, bool) {
	phraseWords := normalizeWords(phrase)
	if len(phraseWords) == 0 {
		return models.Service{}, false
	}
	joined := strings.Join(phraseWords, " ")

	for _, svc := range services {
		nameWords := normalizeWords(svc.Name)
		if len(nameWords) == 0 {
			continue
		}
		name := strings.Join(nameWords, " ")
		if strings.Contains(joined, name) || strings.Contains(name, joined) {
			return svc, true
		}
	}

	for _, svc := range services {
		if overlap(phraseWords, normalizeWords(svc.Name)) >= overlapThreshold {
			return svc, true
		}
	}
	return models.Service{}, false
}

// overlap is |a ∩ b| / max(|a|, |b|) over distinct words.
func overlap(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}
	denom := len(setA)
	if len(setB) > denom {
		denom = len(setB)
	}
	return float64(shared) / float64(denom)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// serviceNames lists service names for prompts and replies.
func serviceNames(services []models.Service) []string {
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	return names
}
