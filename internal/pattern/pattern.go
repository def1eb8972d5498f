// Package pattern tags text with an intent and product categories using ordered regex rules.
package pattern

import (
	"regexp"

	"github.com/onkardamal/Aura/internal/model"
)

type intentRule struct {
	intent   model.Intent
	patterns []*regexp.Regexp
}

type categoryRule struct {
	category model.Category
	patterns []*regexp.Regexp
}

// Evaluation order matters: the first matching intent rule wins.
var intentRules = []intentRule{
	{intent: model.IntentBugReport, patterns: compile(`bug|error|issue|crash|not working|fail`)},
	{intent: model.IntentFeatureRequest, patterns: compile(`feature|add|could you|would like|enhancement`)},
	{intent: model.IntentSupportRequest, patterns: compile(`how do i|help|support|guide|instruction`)},
	{intent: model.IntentFeedback, patterns: compile(`feedback|suggestion|thoughts|i think|improve`)},
}

var categoryRules = []categoryRule{
	{category: model.CategoryPerformance, patterns: compile(`slow|lag|latency|performance|optimi[sz]e`)},
	{category: model.CategoryUsability, patterns: compile(`confus|hard to|difficult|ux|ui|user[- ]?friendly`)},
	{category: model.CategoryReliability, patterns: compile(`crash|freeze|hang|unstable|reliab`)},
	{category: model.CategoryIntegration, patterns: compile(`api|integrat|webhook|oauth|login|auth`)},
	{category: model.CategoryBilling, patterns: compile(`bill|pay|invoice|subscription|charge`)},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ClassifyIntent returns the intent of the first rule with a matching pattern, or unknown.
func ClassifyIntent(text string) model.Intent {
	for _, rule := range intentRules {
		if anyMatch(rule.patterns, text) {
			return rule.intent
		}
	}
	return model.IntentUnknown
}

// ClassifyCategories returns every category with a matching pattern, in canonical order.
func ClassifyCategories(text string) []model.Category {
	out := make([]model.Category, 0, len(categoryRules))
	for _, rule := range categoryRules {
		if anyMatch(rule.patterns, text) {
			out = append(out, rule.category)
		}
	}
	return out
}
