package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/highwaterlabs/highwater-llm-go"
)

// StreamResponse generates a streaming response from Claude.
// Returns a channel that emits chunks as deltas arrive from the API.
// The Messages API has no resumable background mode, so a transport drop
// surfaces as a terminal error chunk.
func (p *Provider) StreamResponse(ctx context.Context, req *llmprovider.GenerationRequest) (<-chan llmprovider.Chunk, error) {
	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	// Build Anthropic API parameters (shared logic with GenerateResponse)
	apiParams, err := buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	chunks := make(chan llmprovider.Chunk, 10) // Buffered to prevent blocking

	go func() {
		defer close(chunks)

		stream := p.client.Messages.NewStreaming(ctx, apiParams)

		// Accumulator for the final usage record
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()

			if err := message.Accumulate(event); err != nil {
				chunks <- llmprovider.ErrorChunk(fmt.Errorf("failed to accumulate message: %w", err), false)
				return
			}

			chunk, ok := transformAnthropicStreamEvent(event)
			if !ok {
				continue
			}

			select {
			case <-ctx.Done():
				chunks <- llmprovider.ErrorChunk(ctx.Err(), false)
				return
			case chunks <- chunk:
			}
		}

		if err := stream.Err(); err != nil {
			chunks <- llmprovider.ErrorChunk(
				fmt.Errorf("anthropic streaming error: %w", err),
				llmprovider.IsRetryable(err),
			)
			return
		}

		usage := llmprovider.NormalizeUsage(anthropicUsageToRaw(message.Usage), nil, "")
		chunks <- llmprovider.UsageChunk(usage)
	}()

	return chunks, nil
}

// transformAnthropicStreamEvent converts an Anthropic streaming event to a
// library chunk. Lifecycle events that carry no deliverable content
// (message_start, content_block_stop, message_delta, message_stop) return
// ok=false and are skipped.
func transformAnthropicStreamEvent(event anthropic.MessageStreamEventUnion) (llmprovider.Chunk, bool) {
	switch e := event.AsAny().(type) {
	case anthropic.ContentBlockDeltaEvent:
		switch e.Delta.Type {
		case "text_delta":
			if e.Delta.Text == "" {
				return llmprovider.Chunk{}, false
			}
			return llmprovider.TextChunk(e.Delta.Text), true

		case "thinking_delta":
			if e.Delta.Thinking == "" {
				return llmprovider.Chunk{}, false
			}
			return llmprovider.ReasoningChunk(e.Delta.Thinking), true
		}
		// signature_delta and input_json_delta carry no user-visible text.
		return llmprovider.Chunk{}, false

	default:
		return llmprovider.Chunk{}, false
	}
}
