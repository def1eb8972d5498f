package suggest

import (
	"strings"
	"testing"

	"github.com/onkardamal/Aura/internal/model"
)

func TestSuggestFallback(t *testing.T) {
	got := Suggest(model.AnalysisResult{
		Sentiment: model.Sentiment{Label: model.SentimentNeutral},
		Intent:    model.IntentUnknown,
	})
	if len(got) != 1 || got[0] != Fallback {
		t.Fatalf("expected single fallback suggestion, got %v", got)
	}
}

func TestSuggestBugReport(t *testing.T) {
	got := Suggest(model.AnalysisResult{
		Sentiment:  model.Sentiment{Label: model.SentimentNegative, Score: -1},
		Intent:     model.IntentBugReport,
		Categories: []model.Category{model.CategoryReliability},
	})
	if len(got) != 4 {
		t.Fatalf("expected 4 suggestions, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Reproduce") {
		t.Fatalf("expected reproduction step first, got %q", got[0])
	}
	if got[3] != "Acknowledge frustration and set clear next steps." {
		t.Fatalf("expected sentiment rule last, got %q", got[3])
	}
}

func TestSuggestRuleOrder(t *testing.T) {
	got := Suggest(model.AnalysisResult{
		Sentiment:  model.Sentiment{Label: model.SentimentNegative, Score: -2},
		Intent:     model.IntentFeatureRequest,
		Categories: []model.Category{model.CategoryIntegration, model.CategoryPerformance},
	})
	want := []string{
		"Describe the use case, impact, and priority.",
		"Propose acceptance criteria and alternatives considered.",
		"Measure timings and identify slow operations using profiling tools.",
		"Validate API keys/scopes and inspect network requests.",
		"Acknowledge frustration and set clear next steps.",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d suggestions, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestion %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestForMood(t *testing.T) {
	for _, mood := range model.AllMoods {
		if len(ForMood(mood)) == 0 {
			t.Fatalf("expected recommendations for %q", mood)
		}
	}
	unknown := ForMood(model.MoodLabel("bored"))
	neutral := ForMood(model.MoodNeutral)
	if unknown[0] != neutral[0] {
		t.Fatalf("expected neutral recommendations for unknown mood")
	}
	unknown[0] = "changed"
	if ForMood(model.MoodNeutral)[0] == "changed" {
		t.Fatalf("ForMood must return a copy")
	}
}
