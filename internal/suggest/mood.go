package suggest

import "github.com/onkardamal/Aura/internal/model"

var moodRecommendations = map[model.MoodLabel][]string{
	model.MoodPositive: {
		"Continue engaging with this positive content",
		"Share this positive experience with others",
		"Bookmark this page for future reference",
		"Take a moment to appreciate this positive feeling",
	},
	model.MoodNegative: {
		"Take a deep breath and pause for a moment",
		"Consider a short break from this content",
		"Try a breathing exercise",
		"Focus on something positive in your environment",
		"Remember that it's okay to step away",
	},
	model.MoodAnxious: {
		"Practice deep breathing exercises",
		"Focus on the present moment",
		"Try progressive muscle relaxation",
		"Take a short walk or stretch break",
	},
	model.MoodExcited: {
		"Channel your energy productively",
		"Take a moment to ground yourself",
		"Share your enthusiasm with others",
		"Use this energy for focused work",
	},
	model.MoodCalm: {
		"Enjoy this peaceful state",
		"Maintain your inner balance",
		"Use this calm for focused work",
		"Practice mindfulness to stay present",
	},
	model.MoodFrustrated: {
		"Take a step back and breathe deeply",
		"Consider what's causing this frustration",
		"Try a breathing exercise to calm down",
		"Remember that mistakes are part of learning",
	},
	model.MoodNeutral: {
		"A balanced state is perfect for focus",
		"Use this stability for productivity",
		"Maintain your equilibrium",
		"Consider what you'd like to achieve",
	},
}

// ForMood returns wellbeing recommendations for a typing mood.
// Unknown moods get the neutral list.
func ForMood(mood model.MoodLabel) []string {
	recs, ok := moodRecommendations[mood]
	if !ok {
		recs = moodRecommendations[model.MoodNeutral]
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
