// Package lexicon scores text sentiment against fixed word lists.
package lexicon

import (
	"strings"

	"github.com/onkardamal/Aura/internal/model"
)

var positiveTerms = []string{
	"good", "great", "excellent", "amazing", "love", "happy", "satisfied",
	"fast", "success", "helpful", "works", "resolved", "awesome",
}

var negativeTerms = []string{
	"bad", "terrible", "awful", "hate", "angry", "sad", "slow", "broken",
	"crash", "issue", "problem", "bug", "error", "not working", "frustrated",
}

// Score counts contained positive terms minus contained negative terms.
// Matching is case-insensitive substring containment; each term counts once.
func Score(text string) model.Sentiment {
	lower := strings.ToLower(text)
	score := 0
	for _, term := range positiveTerms {
		if strings.Contains(lower, term) {
			score++
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(lower, term) {
			score--
		}
	}
	return model.Sentiment{Label: model.LabelForScore(score), Score: score}
}
