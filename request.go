package llmprovider

// GenerationRequest contains the parameters for an LLM generation request.
// It is an immutable value: providers never mutate it, so the same request
// can safely back a retried or resumed session.
type GenerationRequest struct {
	// Model is the model identifier (e.g., "gpt-5.1")
	Model string

	// Turns contains the conversation history in order.
	Turns []Turn

	// Instructions is the top-level system/developer instructions string.
	// It is carried in a dedicated wire field, never folded into Turns,
	// except for models whose server-side instructions are immutable.
	Instructions string

	// Options contains generation knobs (reasoning effort, verbosity,
	// service tier, background mode, etc.)
	Options *GenerateOptions
}
