package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/onkardamal/Aura/internal/model"
)

// reply is the union of JSON shapes the chat-style providers are asked to return.
type reply struct {
	Sentiment   json.RawMessage `json:"sentiment"`
	Label       string          `json:"label"`
	Score       json.RawMessage `json:"score"`
	Intent      string          `json:"intent"`
	Categories  json.RawMessage `json:"categories"`
	Suggestions json.RawMessage `json:"suggestions"`
	Mood        string          `json:"mood"`
	Intensity   json.RawMessage `json:"intensity"`
}

// decodeReply decodes content strictly, then falls back to the first balanced object in it.
func decodeReply(content string) (reply, error) {
	content = strings.TrimSpace(content)
	var r reply
	if err := json.Unmarshal([]byte(content), &r); err == nil {
		return r, nil
	}
	obj, ok := firstObject(content)
	if !ok {
		return reply{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedPayload)
	}
	r = reply{}
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return reply{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return r, nil
}

// firstObject returns the first balanced {...} substring, ignoring braces inside strings.
// An opening brace that never closes is skipped in favor of the next one.
func firstObject(s string) (string, bool) {
	for from := 0; from < len(s); {
		off := strings.IndexByte(s[from:], '{')
		if off < 0 {
			return "", false
		}
		start := from + off
		if end, ok := balancedEnd(s, start); ok {
			return s[start:end], true
		}
		from = start + 1
	}
	return "", false
}

// balancedEnd returns the index just past the brace closing the one at start.
func balancedEnd(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// normalize maps a decoded reply onto the canonical result.
// When requireSuggestions is set a missing or non-list suggestions field is an error.
func normalize(r reply, requireSuggestions bool) (model.AnalysisResult, error) {
	suggestions, present, err := stringList(r.Suggestions)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: suggestions: %v", ErrMalformedPayload, err)
	}
	if requireSuggestions && !present {
		return model.AnalysisResult{}, fmt.Errorf("%w: missing suggestions", ErrMalformedPayload)
	}

	var result model.AnalysisResult
	result.Sentiment = normalizeSentiment(r)
	if intent, ok := model.ParseIntent(r.Intent); ok {
		result.Intent = intent
	}
	categories, _, err := stringList(r.Categories)
	if err != nil {
		// a single comma-separated string is tolerated
		var s string
		if json.Unmarshal(r.Categories, &s) == nil {
			categories = strings.Split(s, ",")
		}
	}
	if cats := model.NormalizeCategories(categories); len(cats) > 0 {
		result.Categories = cats
	}
	for _, s := range suggestions {
		if s = strings.TrimSpace(s); s != "" {
			result.Suggestions = append(result.Suggestions, s)
		}
	}
	return result, nil
}

func normalizeSentiment(r reply) model.Sentiment {
	label := r.Label
	scoreRaw := r.Score
	if len(r.Sentiment) > 0 {
		var obj struct {
			Label string          `json:"label"`
			Score json.RawMessage `json:"score"`
		}
		var s string
		switch {
		case json.Unmarshal(r.Sentiment, &s) == nil:
			label = s
		case json.Unmarshal(r.Sentiment, &obj) == nil:
			if obj.Label != "" {
				label = obj.Label
			}
			if len(obj.Score) > 0 {
				scoreRaw = obj.Score
			}
		}
	}

	parsed, ok := sentimentFromWord(label)
	if !ok {
		parsed, ok = sentimentFromWord(r.Mood)
	}
	if !ok {
		return model.Sentiment{}
	}

	if score, ok := number(scoreRaw); ok {
		return model.Sentiment{Label: parsed, Score: scaleScore(score)}
	}
	magnitude := intensity(r.Intensity)
	switch parsed {
	case model.SentimentPositive:
		return model.Sentiment{Label: parsed, Score: magnitude}
	case model.SentimentNegative:
		return model.Sentiment{Label: parsed, Score: -magnitude}
	default:
		return model.Sentiment{Label: parsed}
	}
}

// sentimentFromWord accepts a sentiment label or a free-form mood word.
func sentimentFromWord(word string) (model.SentimentLabel, bool) {
	if label, ok := model.ParseSentimentLabel(word); ok {
		return label, true
	}
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "happy", "excited", "joyful", "content":
		return model.SentimentPositive, true
	case "sad", "angry", "stressed", "anxious", "frustrated", "upset":
		return model.SentimentNegative, true
	case "calm", "relaxed":
		return model.SentimentNeutral, true
	}
	return "", false
}

// maxScore bounds remote scores before conversion.
const maxScore = 100

// scaleScore treats |f| <= 1 as a normalized score and scales it by 10.
// Larger magnitudes are taken as-is, rounded and clamped to ±maxScore.
func scaleScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	if math.Abs(f) <= 1 {
		f *= 10
	}
	f = math.Max(-maxScore, math.Min(maxScore, f))
	return int(math.Round(f))
}

func intensity(raw json.RawMessage) int {
	if f, ok := number(raw); ok {
		switch {
		case f <= 0:
			return 1
		case f <= 1:
			// fractional confidence-style intensity
			return int(math.Max(1, math.Round(f*3)))
		default:
			return int(math.Min(3, math.Round(f)))
		}
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "medium", "moderate":
			return 2
		case "high", "strong":
			return 3
		}
	}
	return 1
}

func number(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// stringList decodes a JSON array of strings. present is false for an absent or null field.
func stringList(raw json.RawMessage) (list []string, present bool, err error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, err
	}
	return list, true, nil
}
