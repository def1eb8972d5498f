package mode

import (
	"testing"

	"github.com/onkardamal/Aura/internal/model"
)

func TestForMood(t *testing.T) {
	want := map[model.MoodLabel]model.Mode{
		model.MoodNeutral:    model.ModeDefault,
		model.MoodPositive:   model.ModeHappy,
		model.MoodNegative:   model.ModeCalm,
		model.MoodAnxious:    model.ModeCalm,
		model.MoodExcited:    model.ModeHappy,
		model.MoodCalm:       model.ModeDefault,
		model.MoodFrustrated: model.ModeCalm,
	}
	for _, m := range model.AllMoods {
		got, ok := want[m]
		if !ok {
			t.Fatalf("mood %q has no expectation", m)
		}
		if ForMood(m) != got {
			t.Fatalf("ForMood(%q) = %q, want %q", m, ForMood(m), got)
		}
	}
}

func TestForSentiment(t *testing.T) {
	cases := map[model.SentimentLabel]model.Mode{
		model.SentimentPositive: model.ModeHappy,
		model.SentimentNeutral:  model.ModeDefault,
		model.SentimentNegative: model.ModeCalm,
	}
	for label, want := range cases {
		if got := ForSentiment(label); got != want {
			t.Fatalf("ForSentiment(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestSelectTotalAndIdempotent(t *testing.T) {
	labels := []string{"happy", "SAD", " angry ", "stressed", "", "bewildered", "calm"}
	for _, l := range labels {
		first := Select(l)
		switch first {
		case model.ModeCalm, model.ModeHappy, model.ModeDefault:
		default:
			t.Fatalf("Select(%q) returned unknown mode %q", l, first)
		}
		if Select(l) != first {
			t.Fatalf("Select(%q) not stable", l)
		}
	}
	if Select("bewildered") != model.ModeDefault {
		t.Fatalf("expected default for unknown label")
	}
}
