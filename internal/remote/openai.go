package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/onkardamal/Aura/internal/model"
)

const (
	openAIBaseURL  = "https://api.openai.com/v1"
	openAIModel    = "gpt-4o-mini"
	openAIMaxChars = 8000
)

const openAISystemPrompt = "You analyze short user texts. Respond ONLY with strict JSON with keys: " +
	"sentiment (object with label positive|neutral|negative and integer score), " +
	"intent (bug_report|feature_request|support_request|feedback|unknown), " +
	"categories (array drawn from performance, usability, reliability, integration, billing), " +
	"suggestions (array of short actionable strings)."

// OpenAI calls the Chat Completions API.
type OpenAI struct {
	client *http.Client
}

// NewOpenAI creates the OpenAI provider.
func NewOpenAI(client *http.Client) *OpenAI {
	return &OpenAI{client: client}
}

// Kind returns model.ProviderOpenAI.
func (p *OpenAI) Kind() model.ProviderKind { return model.ProviderOpenAI }

// MaxChars returns the outgoing text limit.
func (p *OpenAI) MaxChars() int { return openAIMaxChars }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze sends one chat completion request and normalizes the JSON reply.
func (p *OpenAI) Analyze(ctx context.Context, text string, cfg model.RemoteProviderConfig) (model.AnalysisResult, error) {
	req := chatRequest{
		Model: modelOr(cfg, openAIModel),
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.2,
	}
	url := baseURLOr(cfg, openAIBaseURL) + "/chat/completions"
	data, err := postJSON(ctx, p.client, url, map[string]string{"Authorization": "Bearer " + cfg.APIKey}, req)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("%w: no choices", ErrMalformedPayload)
	}
	r, err := decodeReply(resp.Choices[0].Message.Content)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return normalize(r, true)
}
