// Package suggest derives actionable suggestions from analysis output.
package suggest

import "github.com/onkardamal/Aura/internal/model"

// Fallback is emitted when no rule fires.
const Fallback = "Clarify the goal and constraints; suggest next concrete action."

type rule struct {
	when        func(model.AnalysisResult) bool
	suggestions []string
}

func intentIs(intent model.Intent) func(model.AnalysisResult) bool {
	return func(r model.AnalysisResult) bool { return r.Intent == intent }
}

func hasCategory(c model.Category) func(model.AnalysisResult) bool {
	return func(r model.AnalysisResult) bool { return r.HasCategory(c) }
}

func sentimentIs(label model.SentimentLabel) func(model.AnalysisResult) bool {
	return func(r model.AnalysisResult) bool { return r.Sentiment.Label == label }
}

// Intent rules, then category rules, then sentiment rules.
var rules = []rule{
	{when: intentIs(model.IntentBugReport), suggestions: []string{
		"Reproduce the issue with clear steps and environment details.",
		"Collect logs, screenshots, and error messages.",
		"Provide expected vs actual behavior.",
	}},
	{when: intentIs(model.IntentSupportRequest), suggestions: []string{
		"Share a minimal example and what you've tried.",
		"Link to relevant docs or FAQs.",
	}},
	{when: intentIs(model.IntentFeatureRequest), suggestions: []string{
		"Describe the use case, impact, and priority.",
		"Propose acceptance criteria and alternatives considered.",
	}},
	{when: hasCategory(model.CategoryPerformance), suggestions: []string{
		"Measure timings and identify slow operations using profiling tools.",
	}},
	{when: hasCategory(model.CategoryIntegration), suggestions: []string{
		"Validate API keys/scopes and inspect network requests.",
	}},
	{when: sentimentIs(model.SentimentNegative), suggestions: []string{
		"Acknowledge frustration and set clear next steps.",
	}},
}

// Suggest appends the suggestions of every satisfied rule in table order.
// Duplicates are not collapsed.
func Suggest(r model.AnalysisResult) []string {
	var out []string
	for _, rl := range rules {
		if rl.when(r) {
			out = append(out, rl.suggestions...)
		}
	}
	if len(out) == 0 {
		out = append(out, Fallback)
	}
	return out
}
