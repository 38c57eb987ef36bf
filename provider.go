package llmprovider

import (
	"context"
)

// Provider defines the interface that all LLM providers must implement.
// This abstraction allows supporting multiple providers (OpenAI Responses,
// Anthropic, mocks) while maintaining a consistent interface.
//
// Types used by this interface:
//   - GenerationRequest, Turn: defined in request.go, types.go
//   - GenerateResponse: defined in response.go
//   - Chunk: defined in streaming.go
type Provider interface {
	// GenerateResponse generates a complete response from the LLM provider (blocking).
	// It takes conversation context (turns) and returns accumulated output.
	// Used for non-streaming scenarios or as fallback.
	GenerateResponse(ctx context.Context, req *GenerationRequest) (*GenerateResponse, error)

	// StreamResponse starts one generation session and returns its chunk
	// sequence. The channel is single-pass and lazily produced: chunks
	// arrive in event order, exactly once each, and the channel closes
	// after the terminal chunk (usage on success, error on failure).
	// A closed channel is not restartable - make a new call to regenerate.
	//
	// Usage:
	//   chunks, err := provider.StreamResponse(ctx, req)
	//   if err != nil { return err }
	//   for chunk := range chunks {
	//     switch chunk.Type {
	//     case llmprovider.ChunkTypeText: ...
	//     case llmprovider.ChunkTypeError: handle terminal failure
	//     }
	//   }
	StreamResponse(ctx context.Context, req *GenerationRequest) (<-chan Chunk, error)

	// Name returns the provider identifier (e.g., "openai", "anthropic", "lorem")
	Name() ProviderID

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
