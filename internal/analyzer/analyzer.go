// Package analyzer combines the heuristic pipeline with optional remote augmentation.
package analyzer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/onkardamal/Aura/internal/lexicon"
	"github.com/onkardamal/Aura/internal/log"
	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/pattern"
	"github.com/onkardamal/Aura/internal/suggest"
)

// Source records which path produced a result.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceRemote    Source = "remote"
	SourceMerged    Source = "merged"
)

// Augmenter returns a normalized remote result, or nil when augmentation is unavailable.
type Augmenter interface {
	Augment(ctx context.Context, text string, cfg model.RemoteProviderConfig) *model.AnalysisResult
}

// Options control a single analysis.
type Options struct {
	UseRemote bool
	Remote    model.RemoteProviderConfig
}

// Outcome is an analysis result with its provenance.
type Outcome struct {
	Result model.AnalysisResult
	Source Source
}

// Analyzer runs the hybrid analysis.
type Analyzer struct {
	augmenter Augmenter
	logger    *slog.Logger
}

// New creates an analyzer. A nil augmenter disables remote augmentation.
func New(augmenter Augmenter, logger *slog.Logger) *Analyzer {
	return &Analyzer{augmenter: augmenter, logger: log.OrDiscard(logger)}
}

// Neutral returns the result for empty input.
func Neutral() model.AnalysisResult {
	return model.AnalysisResult{
		Sentiment:   model.Sentiment{Label: model.SentimentNeutral},
		Intent:      model.IntentUnknown,
		Categories:  []model.Category{},
		Suggestions: []string{suggest.Fallback},
	}
}

// Heuristic runs the lexicon, pattern and suggestion stages.
func Heuristic(text string) model.AnalysisResult {
	result := model.AnalysisResult{
		Sentiment:  lexicon.Score(text),
		Intent:     pattern.ClassifyIntent(text),
		Categories: pattern.ClassifyCategories(text),
	}
	result.Suggestions = suggest.Suggest(result)
	return result
}

// Analyze returns the analysis of text without provenance.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) model.AnalysisResult {
	return a.Run(ctx, text, opts).Result
}

// Run analyzes text and reports which path produced the result.
func (a *Analyzer) Run(ctx context.Context, text string, opts Options) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Result: Neutral(), Source: SourceHeuristic}
	}
	heur := Heuristic(text)
	if !opts.UseRemote || a.augmenter == nil {
		return Outcome{Result: heur, Source: SourceHeuristic}
	}
	remote := a.augmenter.Augment(ctx, text, opts.Remote)
	if remote == nil {
		a.logger.Debug("using heuristic result", "provider", string(opts.Remote.Kind))
		return Outcome{Result: heur, Source: SourceHeuristic}
	}
	merged, source := Merge(heur, *remote)
	return Outcome{Result: merged, Source: source}
}

// Merge overlays each usable remote field onto the heuristic result.
// Suggestions are taken wholesale from one side.
func Merge(heur, remote model.AnalysisResult) (model.AnalysisResult, Source) {
	out := heur
	used := 0
	if _, ok := model.ParseSentimentLabel(string(remote.Sentiment.Label)); ok {
		out.Sentiment = remote.Sentiment
		used++
	}
	if remote.Intent != "" {
		out.Intent = remote.Intent
		used++
	}
	if len(remote.Categories) > 0 {
		out.Categories = remote.Categories
		used++
	}
	if len(remote.Suggestions) > 0 {
		out.Suggestions = remote.Suggestions
		used++
	}
	switch used {
	case 0:
		return out, SourceHeuristic
	case 4:
		return out, SourceRemote
	default:
		return out, SourceMerged
	}
}
