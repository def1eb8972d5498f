package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/onkardamal/Aura/internal/model"
)

const (
	googleBaseURL  = "https://language.googleapis.com/v1"
	googleMaxChars = 20000

	googlePositiveThreshold = 0.2
	googleNegativeThreshold = -0.2
)

// Google calls the Cloud Natural Language analyzeSentiment API.
type Google struct {
	client *http.Client
}

// NewGoogle creates the Cloud Natural Language provider.
func NewGoogle(client *http.Client) *Google {
	return &Google{client: client}
}

// Kind returns model.ProviderGoogle.
func (p *Google) Kind() model.ProviderKind { return model.ProviderGoogle }

// MaxChars returns the outgoing text limit.
func (p *Google) MaxChars() int { return googleMaxChars }

type googleDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type googleRequest struct {
	Document     googleDocument `json:"document"`
	EncodingType string         `json:"encodingType"`
}

type googleResponse struct {
	DocumentSentiment *struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	} `json:"documentSentiment"`
}

// Analyze sends one analyzeSentiment request. Only sentiment is populated.
func (p *Google) Analyze(ctx context.Context, text string, cfg model.RemoteProviderConfig) (model.AnalysisResult, error) {
	req := googleRequest{
		Document:     googleDocument{Type: "PLAIN_TEXT", Content: text},
		EncodingType: "UTF8",
	}
	url := baseURLOr(cfg, googleBaseURL) + "/documents:analyzeSentiment"
	data, err := postJSON(ctx, p.client, url, map[string]string{"X-Goog-Api-Key": cfg.APIKey}, req)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	var resp googleResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if resp.DocumentSentiment == nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: missing documentSentiment", ErrMalformedPayload)
	}
	score := resp.DocumentSentiment.Score
	label := model.SentimentNeutral
	switch {
	case score > googlePositiveThreshold:
		label = model.SentimentPositive
	case score < googleNegativeThreshold:
		label = model.SentimentNegative
	}
	return model.AnalysisResult{
		Sentiment: model.Sentiment{Label: label, Score: int(math.Round(score * 10))},
	}, nil
}
