package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/onkardamal/Aura/internal/model"
)

func openAIServer(t *testing.T, content string, status int, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":"nope"}`)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func openAIConfig(url string) model.RemoteProviderConfig {
	return model.RemoteProviderConfig{Kind: model.ProviderOpenAI, APIKey: "test-key", BaseURL: url}
}

func TestAugmentOpenAIFullResult(t *testing.T) {
	content := `{"sentiment":{"label":"negative","score":-2},"intent":"bug_report","categories":["performance","reliability"],"suggestions":["Restart the sync service"]}`
	var hits int32
	srv := openAIServer(t, content, http.StatusOK, &hits)
	defer srv.Close()

	got := NewAugmenter(nil, nil).Augment(context.Background(), "sync is slow", openAIConfig(srv.URL))
	if got == nil {
		t.Fatalf("expected result")
	}
	if got.Sentiment.Label != model.SentimentNegative || got.Sentiment.Score != -2 {
		t.Fatalf("unexpected sentiment: %+v", got.Sentiment)
	}
	if got.Intent != model.IntentBugReport {
		t.Fatalf("unexpected intent: %q", got.Intent)
	}
	if len(got.Categories) != 2 || !got.HasCategory(model.CategoryReliability) {
		t.Fatalf("unexpected categories: %v", got.Categories)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != "Restart the sync service" {
		t.Fatalf("unexpected suggestions: %v", got.Suggestions)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}
}

func TestAugmentOpenAIFencedReply(t *testing.T) {
	content := "Here you go:\n```json\n{\"sentiment\":\"positive\",\"score\":0.4,\"intent\":\"feedback\",\"categories\":[],\"suggestions\":[\"  Say {thanks}  \", \"\"]}\n```"
	srv := openAIServer(t, content, http.StatusOK, nil)
	defer srv.Close()

	got := NewAugmenter(nil, nil).Augment(context.Background(), "great", openAIConfig(srv.URL))
	if got == nil {
		t.Fatalf("expected result from fenced reply")
	}
	if got.Sentiment.Label != model.SentimentPositive || got.Sentiment.Score != 4 {
		t.Fatalf("unexpected sentiment: %+v", got.Sentiment)
	}
	if len(got.Categories) != 0 {
		t.Fatalf("expected no categories, got %v", got.Categories)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0] != "Say {thanks}" {
		t.Fatalf("unexpected suggestions: %v", got.Suggestions)
	}
}

func TestAugmentFailsSoft(t *testing.T) {
	cases := []struct {
		name    string
		content string
		status  int
	}{
		{name: "server error", content: "", status: http.StatusInternalServerError},
		{name: "unauthorized", content: "", status: http.StatusUnauthorized},
		{name: "not json", content: "I cannot help with that.", status: http.StatusOK},
		{name: "missing suggestions", content: `{"sentiment":"neutral","intent":"feedback"}`, status: http.StatusOK},
		{name: "suggestions not a list", content: `{"sentiment":"neutral","suggestions":"try again"}`, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := openAIServer(t, tc.content, tc.status, nil)
			defer srv.Close()
			if got := NewAugmenter(nil, nil).Augment(context.Background(), "text", openAIConfig(srv.URL)); got != nil {
				t.Fatalf("expected nil, got %+v", got)
			}
		})
	}
}

func TestAugmentWithoutKeyMakesNoRequest(t *testing.T) {
	var hits int32
	srv := openAIServer(t, `{"suggestions":[]}`, http.StatusOK, &hits)
	defer srv.Close()

	cfg := openAIConfig(srv.URL)
	cfg.APIKey = "  "
	if got := NewAugmenter(nil, nil).Augment(context.Background(), "text", cfg); got != nil {
		t.Fatalf("expected nil without key")
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestAugmentUnknownProvider(t *testing.T) {
	cfg := model.RemoteProviderConfig{Kind: "watson", APIKey: "k"}
	if got := NewAugmenter(nil, nil).Augment(context.Background(), "text", cfg); got != nil {
		t.Fatalf("expected nil for unknown provider")
	}
	a := NewAugmenter(nil, nil)
	if _, err := a.augment(context.Background(), "text", cfg); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestStatusErrorIsTyped(t *testing.T) {
	srv := openAIServer(t, "", http.StatusTooManyRequests, nil)
	defer srv.Close()

	_, err := NewAugmenter(nil, nil).augment(context.Background(), "text", openAIConfig(srv.URL))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestAugmentGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-pro:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Goog-Api-Key"); got != "g-key" {
			t.Errorf("unexpected key header %q", got)
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig.MaxOutputTokens != 200 {
			t.Errorf("unexpected maxOutputTokens %d", req.GenerationConfig.MaxOutputTokens)
		}
		text := `{"mood":"sad","sentiment":"negative","intensity":"high","emotions":["grief"],"confidence":0.8}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{"content": map[string]any{"parts": []map[string]string{{"text": text}}}}},
		})
	}))
	defer srv.Close()

	cfg := model.RemoteProviderConfig{Kind: model.ProviderGemini, APIKey: "g-key", BaseURL: srv.URL}
	got := NewAugmenter(nil, nil).Augment(context.Background(), "my day was awful", cfg)
	if got == nil {
		t.Fatalf("expected result")
	}
	if got.Sentiment.Label != model.SentimentNegative || got.Sentiment.Score != -3 {
		t.Fatalf("unexpected sentiment: %+v", got.Sentiment)
	}
	if got.Intent != "" || len(got.Categories) != 0 || len(got.Suggestions) != 0 {
		t.Fatalf("expected sentiment only, got %+v", got)
	}
}

func TestAugmentGoogleThresholds(t *testing.T) {
	cases := []struct {
		score float64
		label model.SentimentLabel
		want  int
	}{
		{score: 0.8, label: model.SentimentPositive, want: 8},
		{score: 0.2, label: model.SentimentNeutral, want: 2},
		{score: -0.1, label: model.SentimentNeutral, want: -1},
		{score: -0.6, label: model.SentimentNegative, want: -6},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/documents:analyzeSentiment" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documentSentiment": map[string]float64{"score": tc.score, "magnitude": 1},
			})
		}))
		cfg := model.RemoteProviderConfig{Kind: model.ProviderGoogle, APIKey: "k", BaseURL: srv.URL}
		got := NewAugmenter(nil, nil).Augment(context.Background(), "text", cfg)
		srv.Close()
		if got == nil {
			t.Fatalf("score %.1f: expected result", tc.score)
		}
		if got.Sentiment.Label != tc.label || got.Sentiment.Score != tc.want {
			t.Fatalf("score %.1f: got %+v", tc.score, got.Sentiment)
		}
	}
}

func TestAugmentTruncatesOutgoingText(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req googleRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		received = req.Document.Content
		_ = json.NewEncoder(w).Encode(map[string]any{"documentSentiment": map[string]float64{"score": 0}})
	}))
	defer srv.Close()

	long := strings.Repeat("é", googleMaxChars+50)
	cfg := model.RemoteProviderConfig{Kind: model.ProviderGoogle, APIKey: "k", BaseURL: srv.URL}
	if got := NewAugmenter(nil, nil).Augment(context.Background(), long, cfg); got == nil {
		t.Fatalf("expected result")
	}
	if n := utf8.RuneCountInString(received); n != googleMaxChars {
		t.Fatalf("expected %d runes sent, got %d", googleMaxChars, n)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("expected no limit for zero, got %q", got)
	}
}

func TestRegistryKinds(t *testing.T) {
	kinds := NewRegistry(nil).Kinds()
	if len(kinds) != 3 || kinds[0] != model.ProviderGemini || kinds[1] != model.ProviderGoogle || kinds[2] != model.ProviderOpenAI {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
}
