// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// SentimentLabel is the coarse polarity of a text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// LabelForScore maps a lexicon score to its label by sign.
func LabelForScore(score int) SentimentLabel {
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ParseSentimentLabel recognizes a label regardless of case and surrounding space.
func ParseSentimentLabel(s string) (SentimentLabel, bool) {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	}
	return "", false
}

// Sentiment pairs a label with an integer score.
type Sentiment struct {
	Label SentimentLabel `json:"label" yaml:"label"`
	Score int            `json:"score" yaml:"score"`
}

// Intent is the purpose the author of a text most likely had.
type Intent string

const (
	IntentBugReport      Intent = "bug_report"
	IntentFeatureRequest Intent = "feature_request"
	IntentSupportRequest Intent = "support_request"
	IntentFeedback       Intent = "feedback"
	IntentUnknown        Intent = "unknown"
)

// ParseIntent recognizes an intent value regardless of case and surrounding space.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentBugReport:
		return IntentBugReport, true
	case IntentFeatureRequest:
		return IntentFeatureRequest, true
	case IntentSupportRequest:
		return IntentSupportRequest, true
	case IntentFeedback:
		return IntentFeedback, true
	case IntentUnknown:
		return IntentUnknown, true
	}
	return "", false
}

// Category is a product area a text touches.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryUsability   Category = "usability"
	CategoryReliability Category = "reliability"
	CategoryIntegration Category = "integration"
	CategoryBilling     Category = "billing"
)

// AllCategories lists every category in canonical order.
var AllCategories = []Category{
	CategoryPerformance,
	CategoryUsability,
	CategoryReliability,
	CategoryIntegration,
	CategoryBilling,
}

// ParseCategory recognizes a category regardless of case and surrounding space.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return known, true
		}
	}
	return "", false
}

// NormalizeCategories drops unrecognized values and duplicates, keeping first-seen order.
func NormalizeCategories(raw []string) []Category {
	seen := make(map[Category]struct{}, len(raw))
	out := make([]Category, 0, len(raw))
	for _, s := range raw {
		c, ok := ParseCategory(s)
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// AnalysisResult is the canonical output of text analysis.
type AnalysisResult struct {
	Sentiment   Sentiment  `json:"sentiment" yaml:"sentiment"`
	Intent      Intent     `json:"intent" yaml:"intent"`
	Categories  []Category `json:"categories" yaml:"categories"`
	Suggestions []string   `json:"suggestions" yaml:"suggestions"`
}

// HasCategory reports whether c is in the result's category set.
func (r AnalysisResult) HasCategory(c Category) bool {
	for _, have := range r.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// TypingSample is a single keystroke or input event.
type TypingSample struct {
	TimestampMs int64
	IsDeletion  bool
	RawKey      string
}

// MoodLabel is the affective state derived from typing behavior.
type MoodLabel string

const (
	MoodNeutral    MoodLabel = "neutral"
	MoodPositive   MoodLabel = "positive"
	MoodNegative   MoodLabel = "negative"
	MoodAnxious    MoodLabel = "anxious"
	MoodExcited    MoodLabel = "excited"
	MoodCalm       MoodLabel = "calm"
	MoodFrustrated MoodLabel = "frustrated"
)

// AllMoods lists every mood label.
var AllMoods = []MoodLabel{
	MoodNeutral,
	MoodPositive,
	MoodNegative,
	MoodAnxious,
	MoodExcited,
	MoodCalm,
	MoodFrustrated,
}

// TypingState is a snapshot of the typing tracker's rolling state.
type TypingState struct {
	WindowSamples []TypingSample
	SpeedEstimate int
	ErrorCount    int
	Mood          MoodLabel
}

// Mode identifies an adaptive presentation mode.
type Mode string

const (
	ModeCalm    Mode = "calm"
	ModeHappy   Mode = "happy"
	ModeDefault Mode = "default"
)

// ProviderKind names a remote text-analysis provider.
type ProviderKind string

const (
	ProviderOpenAI ProviderKind = "openai"
	ProviderGemini ProviderKind = "gemini"
	ProviderGoogle ProviderKind = "google"
)

// RemoteProviderConfig selects and authenticates a remote provider.
type RemoteProviderConfig struct {
	Kind    ProviderKind
	APIKey  string
	Model   string
	BaseURL string
}

// AnalysisRecord is a persisted analysis.
type AnalysisRecord struct {
	ID         int64
	SessionID  string
	CreatedAt  time.Time
	Source     string
	TextLength int
	Result     AnalysisResult
}

// HistoryFilter narrows history queries. Zero values disable a filter.
type HistoryFilter struct {
	SessionID string
	Since     *time.Time
	Last      int
}

// CategoryCount is the number of analyses tagged with a category.
type CategoryCount struct {
	Category Category
	Count    int
}

// MoodRecord is a persisted typing mood change.
type MoodRecord struct {
	ID            int64
	SessionID     string
	At            time.Time
	Mood          MoodLabel
	Mode          Mode
	SpeedEstimate int
	ErrorRate     float64
}
