package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/highwaterlabs/highwater-llm-go"
)

// Default session tuning. Every network attempt (initial connect,
// reconnect, each poll) carries its own timeout; the reconnect and poll
// budgets bound how long a background session keeps trying after a drop.
const (
	DefaultMaxResumeRetries = 3
	DefaultResumeBaseDelay  = 1 * time.Second
	DefaultPollInterval     = 2 * time.Second
	DefaultPollTimeout      = 10 * time.Minute
	DefaultRequestTimeout   = 60 * time.Second
)

// Config tunes the provider. The zero value of any field falls back to
// the package default.
type Config struct {
	// APIKey authenticates against the API.
	APIKey string

	// BaseURL is the API origin including version prefix
	// (default "https://api.openai.com/v1").
	BaseURL string

	// HTTPClient overrides the default client. The client must not set a
	// global Timeout: live streams legitimately outlast any fixed bound,
	// and per-attempt timeouts are applied via request contexts.
	HTTPClient *http.Client

	// MaxResumeRetries bounds reconnect attempts after a mid-stream drop
	// before the session falls back to polling.
	MaxResumeRetries int

	// ResumeBaseDelay is the base for exponential reconnect backoff.
	ResumeBaseDelay time.Duration

	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration

	// PollTimeout bounds the total wall-clock time spent polling.
	PollTimeout time.Duration

	// RequestTimeout bounds each non-streaming network attempt, and for
	// streaming attempts bounds inactivity: a connection that delivers no
	// bytes for this long is treated as dropped.
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.MaxResumeRetries == 0 {
		c.MaxResumeRetries = DefaultMaxResumeRetries
	}
	if c.ResumeBaseDelay == 0 {
		c.ResumeBaseDelay = DefaultResumeBaseDelay
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// Provider implements the llmprovider.Provider interface for the OpenAI
// Responses API, including background-mode sessions that survive
// mid-stream drops by reconnecting after the last delivered event and
// falling back to polling when reconnects are exhausted.
type Provider struct {
	cfg        Config
	httpClient *http.Client
}

// NewProvider creates a new Responses API provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	return NewProviderWithConfig(Config{APIKey: apiKey})
}

// NewProviderWithConfig creates a provider with explicit tuning.
func NewProviderWithConfig(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, llmprovider.ErrInvalidAPIKey
	}
	cfg = cfg.withDefaults()
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, httpClient: cfg.HTTPClient}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderOpenAI
}

// SupportsModel returns true if this provider supports the given model.
// Models present in the capability registry are authoritative; unknown
// models fall back to an OpenAI-style name prefix check so newly released
// models keep working before the registry catches up.
func (p *Provider) SupportsModel(model string) bool {
	registry := llmprovider.GetCapabilityRegistry()
	if registry.SupportsModel(p.Name().String(), model) {
		return true
	}
	return strings.HasPrefix(model, "gpt-") || strings.HasPrefix(model, "o")
}

// modelCapability resolves capability flags for a model. Unknown models
// get a permissive default (reasoning on, verbosity off, no pricing) so
// capability gating degrades gracefully rather than stripping every knob.
func (p *Provider) modelCapability(model string) *llmprovider.ModelCapability {
	registry := llmprovider.GetCapabilityRegistry()
	if cap, err := registry.GetModelCapability(p.Name().String(), model); err == nil {
		return cap
	}
	return &llmprovider.ModelCapability{
		Features: llmprovider.ModelFeatures{
			Reasoning: true,
			Streaming: true,
		},
	}
}

func (p *Provider) validateRequest(req *llmprovider.GenerationRequest) error {
	if !p.SupportsModel(req.Model) {
		return &llmprovider.ModelError{
			Model:    req.Model,
			Provider: p.Name().String(),
			Reason:   "model not supported by the Responses provider",
			Err:      llmprovider.ErrInvalidModel,
		}
	}
	return llmprovider.ValidateGenerateOptions(req.Options)
}

// StreamResponse starts one generation session.
//
// In background mode the returned sequence may include status chunks for
// reconnecting/polling phases; mid-stream transport drops are absorbed by
// the session controller and never surface as errors unless the resume
// and poll budgets are exhausted. Without background mode a transport
// drop is fatal: resume is only sound when the server retains the
// generation, which store=true/background guarantees.
func (p *Provider) StreamResponse(ctx context.Context, req *llmprovider.GenerationRequest) (<-chan llmprovider.Chunk, error) {
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	modelCap := p.modelCapability(req.Model)
	wireReq, err := buildWireRequest(req, modelCap)
	if err != nil {
		return nil, err
	}

	s := newSession(p, wireReq, modelCap)

	chunks := make(chan llmprovider.Chunk, 10) // Buffered to prevent blocking
	go s.run(ctx, chunks)
	return chunks, nil
}

// GenerateResponse generates a complete response without streaming.
func (p *Provider) GenerateResponse(ctx context.Context, req *llmprovider.GenerationRequest) (*llmprovider.GenerateResponse, error) {
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	modelCap := p.modelCapability(req.Model)
	wireReq, err := buildWireRequest(req, modelCap)
	if err != nil {
		return nil, err
	}
	wireReq.Stream = false

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	httpReq, err := p.newCreateRequest(ctx, wireReq)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("responses HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text, reasoning := flattenOutput(wr.Output)
	out := &llmprovider.GenerateResponse{
		Text:        text,
		Reasoning:   reasoning,
		ResponseID:  wr.ID,
		Model:       wr.Model,
		ServiceTier: wr.ServiceTier,
	}
	if wr.Usage != nil {
		u := llmprovider.NormalizeUsage(wr.Usage.toRaw(), modelCap, wr.ServiceTier)
		out.Usage = &u
	}
	return out, nil
}

// newCreateRequest builds the POST that opens a new generation.
func (p *Provider) newCreateRequest(ctx context.Context, wireReq *wireRequest) (*http.Request, error) {
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.setHeaders(httpReq)
	if wireReq.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	return httpReq, nil
}

// newResumeRequest builds the GET that reattaches to an in-flight
// generation, requesting only events strictly after the given sequence.
func (p *Provider) newResumeRequest(ctx context.Context, responseID string, afterSequence int) (*http.Request, error) {
	url := fmt.Sprintf("%s/responses/%s?stream=true&starting_after=%d", p.cfg.BaseURL, responseID, afterSequence)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	return httpReq, nil
}

// newPollRequest builds the GET that fetches the current state of a
// stored generation.
func (p *Provider) newPollRequest(ctx context.Context, responseID string) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/responses/"+responseID, nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(httpReq)
	return httpReq, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// handleErrorResponse parses a non-200 response into a typed error.
func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	requestID := resp.Header.Get("x-request-id")
	return llmprovider.StatusCodeToError(p.Name().String(), resp.StatusCode, message, requestID)
}
