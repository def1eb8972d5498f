// Package mode maps sentiment and mood labels to a presentation mode.
package mode

import (
	"strings"

	"github.com/onkardamal/Aura/internal/model"
)

// Select returns the mode for a sentiment or mood label. Unknown labels map to default.
func Select(label string) model.Mode {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "negative", "anxious", "frustrated", "sad", "angry", "stressed":
		return model.ModeCalm
	case "positive", "excited", "happy":
		return model.ModeHappy
	default:
		return model.ModeDefault
	}
}

// ForMood returns the mode for a typing mood.
func ForMood(m model.MoodLabel) model.Mode {
	return Select(string(m))
}

// ForSentiment returns the mode for a sentiment label.
func ForSentiment(l model.SentimentLabel) model.Mode {
	return Select(string(l))
}
