package llmprovider

// GenerateResponse contains the LLM provider's complete (non-streaming) response.
type GenerateResponse struct {
	// Text is the accumulated assistant output text
	Text string

	// Reasoning is the accumulated reasoning/summary text (empty when the
	// model emitted none or reasoning was disabled)
	Reasoning string

	// ResponseID is the server-assigned response identifier (if any)
	ResponseID string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// ServiceTier is the service tier the server resolved for this
	// response (empty when the provider reports none)
	ServiceTier string

	// Usage is the normalized token accounting with computed cost
	Usage *Usage
}
