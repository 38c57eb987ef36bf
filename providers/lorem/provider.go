package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	llmprovider "github.com/highwaterlabs/highwater-llm-go"
)

// Provider is a mock LLM provider that generates lorem ipsum text.
// Used for testing and development without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() llmprovider.ProviderID {
	return llmprovider.ProviderLorem
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow", "lorem-bg"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// getStreamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second (500ms per word)
// - lorem-fast: 30 words/second (33ms per word)
// - lorem-medium: 10 words/second (100ms per word)
// - default: 10 words/second
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond // 2 words/second
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond // 30 words/second
	}
	if strings.Contains(model, "medium") {
		return 100 * time.Millisecond // 10 words/second
	}
	return 100 * time.Millisecond // default: 10 words/second
}

// isBackgroundModel returns true if the model simulates a background
// session: status chunks for the queued/in-progress/completed phases
// surround the text, the way a real background generation behaves.
func isBackgroundModel(model string) bool {
	return strings.Contains(model, "bg") || strings.Contains(model, "background")
}

func (p *Provider) validate(req *llmprovider.GenerationRequest) error {
	if !p.SupportsModel(req.Model) {
		return &llmprovider.ModelError{
			Model:    req.Model,
			Provider: p.Name().String(),
			Reason:   "model not supported by Lorem provider (must start with 'lorem-')",
			Err:      llmprovider.ErrInvalidModel,
		}
	}
	return llmprovider.ValidateGenerateOptions(req.Options)
}

// GenerateResponse generates a complete lorem ipsum response.
func (p *Provider) GenerateResponse(ctx context.Context, req *llmprovider.GenerationRequest) (*llmprovider.GenerateResponse, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	// Simulate a short blocking call.
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	targetWords := req.Options.GetMaxOutputTokens(60)
	text := p.generateTextWords(targetWords)

	inputTokens := p.estimateTokens(req.Turns)
	outputTokens := len(strings.Fields(text))

	usage := llmprovider.NormalizeUsage(llmprovider.RawUsage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}, nil, "")

	return &llmprovider.GenerateResponse{
		Text:       text,
		ResponseID: "lorem_" + req.Model,
		Model:      req.Model,
		Usage:      &usage,
	}, nil
}

// StreamResponse streams lorem ipsum word by word. Speed varies with the
// model name (lorem-slow, lorem-fast, lorem-medium); models containing
// "bg" simulate a background session with status chunks.
func (p *Provider) StreamResponse(ctx context.Context, req *llmprovider.GenerationRequest) (<-chan llmprovider.Chunk, error) {
	if err := p.validate(req); err != nil {
		return nil, err
	}

	targetWords := req.Options.GetMaxOutputTokens(60)
	reasoning := req.Options.ReasoningRequested()
	background := isBackgroundModel(req.Model) ||
		(req.Options != nil && req.Options.Background)
	delay := getStreamDelay(req.Model)
	responseID := "lorem_" + req.Model

	chunks := make(chan llmprovider.Chunk, 10)

	go func() {
		defer close(chunks)

		emit := func(c llmprovider.Chunk) bool {
			select {
			case <-ctx.Done():
				return false
			case chunks <- c:
				return true
			}
		}

		if background {
			if !emit(llmprovider.StatusChunk(llmprovider.PhaseQueued, responseID)) {
				return
			}
			if !emit(llmprovider.StatusChunk(llmprovider.PhaseInProgress, responseID)) {
				return
			}
		}

		outputTokens := 0

		// A short reasoning preamble when the caller asked for reasoning.
		if reasoning {
			words := strings.Fields(p.generateTextWords(10))
			for _, word := range words {
				if !emit(llmprovider.ReasoningChunk(word + " ")) {
					return
				}
				outputTokens++
				time.Sleep(delay)
			}
		}

		words := strings.Fields(p.generateTextWords(targetWords))
		for _, word := range words {
			if !emit(llmprovider.TextChunk(word + " ")) {
				return
			}
			outputTokens++
			time.Sleep(delay)
		}

		if background {
			if !emit(llmprovider.StatusChunk(llmprovider.PhaseCompleted, responseID)) {
				return
			}
		}

		usage := llmprovider.NormalizeUsage(llmprovider.RawUsage{
			InputTokens:     p.estimateTokens(req.Turns),
			OutputTokens:    outputTokens,
			ReasoningTokens: 0,
		}, nil, "")
		emit(llmprovider.UsageChunk(usage))
	}()

	return chunks, nil
}

// generateTextWords generates lorem ipsum text with approximately targetWords words.
func (p *Provider) generateTextWords(targetWords int) string {
	var sb strings.Builder
	wordCount := 0

	for wordCount < targetWords {
		// Generate sentence with 5-15 words
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")

		wordCount += len(strings.Fields(sentence))

		// Add paragraph break every ~50 words
		if wordCount%50 == 0 {
			sb.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

// estimateTokens estimates the token count for a list of turns.
// Uses word count as a rough approximation.
func (p *Provider) estimateTokens(turns []llmprovider.Turn) int {
	totalWords := 0
	for _, turn := range turns {
		for _, part := range turn.Parts {
			if part.IsText() {
				totalWords += len(strings.Fields(part.Text))
			}
		}
	}
	return totalWords
}
