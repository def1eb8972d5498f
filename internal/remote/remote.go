// Package remote augments text analysis with an external text-analysis provider.
//
// Every provider reply is normalized into model.AnalysisResult at this boundary.
// Augment never returns an error: any failure yields nil and the caller keeps its
// heuristic result.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/onkardamal/Aura/internal/log"
	"github.com/onkardamal/Aura/internal/model"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

var (
	// ErrNoAPIKey means no credential is configured for the selected provider.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrUnknownProvider means the provider kind is not registered.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrMalformedPayload means the reply could not be decoded into the expected shape.
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// StatusError reports a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Provider calls one remote API and normalizes its reply.
type Provider interface {
	// Kind returns the provider identifier.
	Kind() model.ProviderKind

	// MaxChars is the rune limit applied to outgoing text.
	MaxChars() int

	// Analyze sends text in exactly one request.
	Analyze(ctx context.Context, text string, cfg model.RemoteProviderConfig) (model.AnalysisResult, error)
}

// Registry maps provider kinds to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[model.ProviderKind]Provider
}

// NewRegistry returns a registry holding the OpenAI, Gemini and Google providers.
func NewRegistry(client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	r := &Registry{providers: make(map[model.ProviderKind]Provider)}
	r.Register(NewOpenAI(client))
	r.Register(NewGemini(client))
	r.Register(NewGoogle(client))
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Kind()] = p
}

// Get returns the provider for kind.
func (r *Registry) Get(kind model.ProviderKind) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[kind]
	return p, ok
}

// Kinds lists registered provider kinds in sorted order.
func (r *Registry) Kinds() []model.ProviderKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]model.ProviderKind, 0, len(r.providers))
	for k := range r.providers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Augmenter performs fail-soft remote analysis.
type Augmenter struct {
	registry *Registry
	logger   *slog.Logger
}

// NewAugmenter builds an augmenter over registry. A nil registry gets the default providers.
func NewAugmenter(registry *Registry, logger *slog.Logger) *Augmenter {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Augmenter{registry: registry, logger: log.OrDiscard(logger)}
}

// Augment returns the provider's normalized analysis of text, or nil on any failure.
func (a *Augmenter) Augment(ctx context.Context, text string, cfg model.RemoteProviderConfig) *model.AnalysisResult {
	result, err := a.augment(ctx, text, cfg)
	if err != nil {
		a.logger.Debug("remote augmentation skipped", "provider", string(cfg.Kind), "err", err)
		return nil
	}
	return &result
}

func (a *Augmenter) augment(ctx context.Context, text string, cfg model.RemoteProviderConfig) (model.AnalysisResult, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return model.AnalysisResult{}, ErrNoAPIKey
	}
	if cfg.Kind == "" {
		cfg.Kind = model.ProviderOpenAI
	}
	p, ok := a.registry.Get(cfg.Kind)
	if !ok {
		return model.AnalysisResult{}, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Kind)
	}
	start := time.Now()
	result, err := p.Analyze(ctx, Truncate(text, p.MaxChars()), cfg)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	a.logger.Debug("remote augmentation done", "provider", string(cfg.Kind), "latency_ms", time.Since(start).Milliseconds())
	return result, nil
}

// Truncate cuts text to at most maxChars runes.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == maxChars {
			return text[:i]
		}
		count++
	}
	return text
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: Truncate(string(data), 200)}
	}
	return data, nil
}

func baseURLOr(cfg model.RemoteProviderConfig, fallback string) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return fallback
}

func modelOr(cfg model.RemoteProviderConfig, fallback string) string {
	if strings.TrimSpace(cfg.Model) != "" {
		return strings.TrimSpace(cfg.Model)
	}
	return fallback
}
