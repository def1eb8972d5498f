package analyzer

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/suggest"
)

type fakeAugmenter struct {
	mu     sync.Mutex
	result *model.AnalysisResult
	calls  int
}

func (f *fakeAugmenter) Augment(_ context.Context, _ string, _ model.RemoteProviderConfig) *model.AnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.result == nil {
		return nil
	}
	r := *f.result
	return &r
}

var remoteOpts = Options{UseRemote: true, Remote: model.RemoteProviderConfig{Kind: model.ProviderOpenAI, APIKey: "k"}}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestHeuristicBugScenario(t *testing.T) {
	got := Heuristic("The app keeps crashing, this is so frustrating")
	if got.Sentiment.Label != model.SentimentNegative || got.Sentiment.Score >= 0 {
		t.Fatalf("unexpected sentiment: %+v", got.Sentiment)
	}
	if got.Intent != model.IntentBugReport {
		t.Fatalf("unexpected intent: %q", got.Intent)
	}
	if !got.HasCategory(model.CategoryReliability) {
		t.Fatalf("expected reliability category, got %v", got.Categories)
	}
	if !contains(got.Suggestions, "Reproduce the issue with clear steps and environment details.") {
		t.Fatalf("expected reproduction suggestion, got %v", got.Suggestions)
	}
}

func TestHeuristicFeatureScenario(t *testing.T) {
	got := Heuristic("Could you add dark mode? would like that feature")
	if got.Intent != model.IntentFeatureRequest {
		t.Fatalf("unexpected intent: %q", got.Intent)
	}
	if !contains(got.Suggestions, "Describe the use case, impact, and priority.") {
		t.Fatalf("expected use-case suggestion, got %v", got.Suggestions)
	}
}

func TestHeuristicLabelMatchesScore(t *testing.T) {
	texts := []string{
		"great work, love it",
		"terrible and slow",
		"the sky is blue",
		"good but broken",
	}
	for _, text := range texts {
		a := Heuristic(text)
		b := Heuristic(text)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("non-deterministic result for %q", text)
		}
		if a.Sentiment.Label != model.LabelForScore(a.Sentiment.Score) {
			t.Fatalf("label %q does not match score %d for %q", a.Sentiment.Label, a.Sentiment.Score, text)
		}
	}
}

func TestAnalyzeWithoutRemoteSkipsAugmenter(t *testing.T) {
	fake := &fakeAugmenter{result: &model.AnalysisResult{Intent: model.IntentFeedback}}
	a := New(fake, nil)
	text := "the api login is slow"
	got := a.Analyze(context.Background(), text, Options{UseRemote: false, Remote: remoteOpts.Remote})
	if !reflect.DeepEqual(got, Heuristic(text)) {
		t.Fatalf("expected heuristic result, got %+v", got)
	}
	if fake.calls != 0 {
		t.Fatalf("expected no augmenter calls, got %d", fake.calls)
	}
}

func TestAnalyzeRemoteNilFallsBack(t *testing.T) {
	a := New(&fakeAugmenter{}, nil)
	text := "billing is broken"
	out := a.Run(context.Background(), text, remoteOpts)
	if !reflect.DeepEqual(out.Result, Heuristic(text)) {
		t.Fatalf("expected heuristic result, got %+v", out.Result)
	}
	if out.Source != SourceHeuristic {
		t.Fatalf("unexpected source %q", out.Source)
	}
}

func TestAnalyzeFullRemoteReturnedExactly(t *testing.T) {
	remote := model.AnalysisResult{
		Sentiment:   model.Sentiment{Label: model.SentimentPositive, Score: 7},
		Intent:      model.IntentFeedback,
		Categories:  []model.Category{model.CategoryUsability},
		Suggestions: []string{"Thank the user"},
	}
	a := New(&fakeAugmenter{result: &remote}, nil)
	out := a.Run(context.Background(), "the app keeps crashing", remoteOpts)
	if !reflect.DeepEqual(out.Result, remote) {
		t.Fatalf("expected remote result, got %+v", out.Result)
	}
	if out.Source != SourceRemote {
		t.Fatalf("unexpected source %q", out.Source)
	}
}

func TestAnalyzeEmptyRemoteSuggestionsKeepHeuristic(t *testing.T) {
	remote := model.AnalysisResult{
		Sentiment: model.Sentiment{Label: model.SentimentNegative, Score: -3},
	}
	a := New(&fakeAugmenter{result: &remote}, nil)
	text := "The app keeps crashing, this is so frustrating"
	heur := Heuristic(text)
	out := a.Run(context.Background(), text, remoteOpts)
	if !reflect.DeepEqual(out.Result.Suggestions, heur.Suggestions) {
		t.Fatalf("expected heuristic suggestions, got %v", out.Result.Suggestions)
	}
	if out.Result.Sentiment.Score != -3 {
		t.Fatalf("expected remote sentiment, got %+v", out.Result.Sentiment)
	}
	if out.Result.Intent != heur.Intent || !reflect.DeepEqual(out.Result.Categories, heur.Categories) {
		t.Fatalf("expected heuristic intent and categories, got %+v", out.Result)
	}
	if out.Source != SourceMerged {
		t.Fatalf("unexpected source %q", out.Source)
	}
}

func TestMergeIgnoresUnrecognizedLabel(t *testing.T) {
	heur := Heuristic("love it")
	merged, source := Merge(heur, model.AnalysisResult{Sentiment: model.Sentiment{Label: "mixed", Score: -9}})
	if merged.Sentiment != heur.Sentiment {
		t.Fatalf("expected heuristic sentiment, got %+v", merged.Sentiment)
	}
	if source != SourceHeuristic {
		t.Fatalf("unexpected source %q", source)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	fake := &fakeAugmenter{result: &model.AnalysisResult{Suggestions: []string{"x"}}}
	got := New(fake, nil).Analyze(context.Background(), "   \n\t", remoteOpts)
	if got.Sentiment.Label != model.SentimentNeutral || got.Sentiment.Score != 0 {
		t.Fatalf("unexpected sentiment: %+v", got.Sentiment)
	}
	if got.Intent != model.IntentUnknown || len(got.Categories) != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != suggest.Fallback {
		t.Fatalf("unexpected suggestions: %v", got.Suggestions)
	}
	if fake.calls != 0 {
		t.Fatalf("expected no augmenter calls")
	}
}

func TestAnalyzeAllKeepsOrder(t *testing.T) {
	a := New(nil, nil)
	texts := []string{"great", "crash", "", "how do i pay my invoice"}
	out, err := a.AnalyzeAll(context.Background(), texts, Options{}, 2)
	if err != nil {
		t.Fatalf("analyze all: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("expected %d outcomes, got %d", len(texts), len(out))
	}
	for i, text := range texts {
		want := a.Analyze(context.Background(), text, Options{})
		if !reflect.DeepEqual(out[i].Result, want) {
			t.Fatalf("outcome %d mismatch: %+v vs %+v", i, out[i].Result, want)
		}
	}
}

func TestAnalyzeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil, nil).AnalyzeAll(ctx, []string{"a", "b"}, Options{}, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
