package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/onkardamal/Aura/internal/model"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel    = "gemini-pro"
	geminiMaxChars = 4000
)

const geminiPrompt = `Analyze the emotional tone of the following text. Respond with a JSON object only:
{"mood": "happy|sad|angry|anxious|calm|excited|neutral", "sentiment": "positive|negative|neutral", "intensity": "low|medium|high", "emotions": ["..."], "confidence": 0.0}

Text: `

// Gemini calls the Generative Language generateContent API.
type Gemini struct {
	client *http.Client
}

// NewGemini creates the Gemini provider.
func NewGemini(client *http.Client) *Gemini {
	return &Gemini{client: client}
}

// Kind returns model.ProviderGemini.
func (p *Gemini) Kind() model.ProviderKind { return model.ProviderGemini }

// MaxChars returns the outgoing text limit.
func (p *Gemini) MaxChars() int { return geminiMaxChars }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Analyze sends one generateContent request and normalizes the mood reply.
func (p *Gemini) Analyze(ctx context.Context, text string, cfg model.RemoteProviderConfig) (model.AnalysisResult, error) {
	var req geminiRequest
	req.Contents = []geminiContent{{Parts: []geminiPart{{Text: geminiPrompt + text}}}}
	req.GenerationConfig.Temperature = 0.1
	req.GenerationConfig.MaxOutputTokens = 200

	endpoint := baseURLOr(cfg, geminiBaseURL) + "/models/" + url.PathEscape(modelOr(cfg, geminiModel)) + ":generateContent"
	data, err := postJSON(ctx, p.client, endpoint, map[string]string{"X-Goog-Api-Key": cfg.APIKey}, req)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	var resp geminiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("%w: no candidates", ErrMalformedPayload)
	}
	r, err := decodeReply(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return normalize(r, false)
}
