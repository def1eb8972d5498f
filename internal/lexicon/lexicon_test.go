package lexicon

import (
	"testing"

	"github.com/onkardamal/Aura/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
		label model.SentimentLabel
	}{
		{name: "empty", text: "", score: 0, label: model.SentimentNeutral},
		{name: "positive", text: "Great support, really helpful", score: 2, label: model.SentimentPositive},
		{name: "negative", text: "The app keeps crashing, this is so frustrating", score: -1, label: model.SentimentNegative},
		{name: "mixed cancels", text: "good but slow", score: 0, label: model.SentimentNeutral},
		{name: "case insensitive", text: "TERRIBLE and AWFUL", score: -2, label: model.SentimentNegative},
		{name: "term counted once", text: "bug bug bug", score: -1, label: model.SentimentNegative},
		{name: "phrase", text: "login is not working", score: -1, label: model.SentimentNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text)
			if got.Score != tt.score {
				t.Fatalf("Score(%q).Score = %d, want %d", tt.text, got.Score, tt.score)
			}
			if got.Label != tt.label {
				t.Fatalf("Score(%q).Label = %q, want %q", tt.text, got.Label, tt.label)
			}
		})
	}
}

func TestScoreLabelMatchesSign(t *testing.T) {
	inputs := []string{
		"",
		"awesome",
		"broken and slow",
		"works great, resolved fast",
		"I hate this error but love the design",
		"nothing to see here",
	}
	for _, in := range inputs {
		first := Score(in)
		second := Score(in)
		if first != second {
			t.Fatalf("Score(%q) not deterministic: %+v vs %+v", in, first, second)
		}
		if first.Label != model.LabelForScore(first.Score) {
			t.Fatalf("Score(%q) label %q does not match score %d", in, first.Label, first.Score)
		}
	}
}
