package llmprovider

import "fmt"

// ReasoningEffort controls how much reasoning a model performs before
// answering. EffortDisabled means the reasoning block is omitted from the
// wire request entirely, not sent as a null or empty value.
type ReasoningEffort string

const (
	EffortMinimal  ReasoningEffort = "minimal"
	EffortLow      ReasoningEffort = "low"
	EffortMedium   ReasoningEffort = "medium"
	EffortHigh     ReasoningEffort = "high"
	EffortXHigh    ReasoningEffort = "xhigh"
	EffortDisabled ReasoningEffort = "disabled"
)

// Verbosity controls output length for models that support it.
type Verbosity string

const (
	VerbosityLow    Verbosity = "low"
	VerbosityMedium Verbosity = "medium"
	VerbosityHigh   Verbosity = "high"
)

// GenerateOptions represents the generation knobs a caller can set.
// All optional fields are pointers to distinguish "not set" from "set to
// zero value". The zero GenerateOptions is valid and means provider defaults.
type GenerateOptions struct {
	// ReasoningEffort sets the reasoning effort level.
	// Silently dropped for models whose capability flags disable reasoning.
	ReasoningEffort ReasoningEffort `json:"reasoning_effort,omitempty"`

	// Verbosity sets the output verbosity.
	// Silently dropped for models that do not support it.
	Verbosity Verbosity `json:"verbosity,omitempty"`

	// ServiceTier requests a named pricing/performance class
	// (e.g. "flex", "priority"). The server may resolve a different tier;
	// the resolved tier drives cost computation.
	ServiceTier string `json:"service_tier,omitempty"`

	// Background requests background mode: the generation persists
	// server-side and can be reconnected to or polled. Background mode
	// forces store=true regardless of Store - storage is a hard
	// precondition for resumability.
	Background bool `json:"background,omitempty"`

	// Store controls server-side response storage. Nil means the server
	// default. Ignored (forced true) under background mode.
	Store *bool `json:"store,omitempty"`

	// MaxOutputTokens caps the number of generated tokens.
	MaxOutputTokens *int `json:"max_output_tokens,omitempty"`

	// PreviousResponseID chains this request onto a stored response.
	PreviousResponseID string `json:"previous_response_id,omitempty"`
}

// ValidateGenerateOptions validates generation options.
func ValidateGenerateOptions(opts *GenerateOptions) error {
	if opts == nil {
		return nil // nil options is valid
	}

	if opts.ReasoningEffort != "" {
		switch opts.ReasoningEffort {
		case EffortMinimal, EffortLow, EffortMedium, EffortHigh, EffortXHigh, EffortDisabled:
		default:
			return &ValidationError{
				Field:  "reasoning_effort",
				Value:  opts.ReasoningEffort,
				Reason: "must be one of: minimal, low, medium, high, xhigh, disabled",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if opts.Verbosity != "" {
		switch opts.Verbosity {
		case VerbosityLow, VerbosityMedium, VerbosityHigh:
		default:
			return &ValidationError{
				Field:  "verbosity",
				Value:  opts.Verbosity,
				Reason: "must be one of: low, medium, high",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if opts.MaxOutputTokens != nil && *opts.MaxOutputTokens < 1 {
		return &ValidationError{
			Field:  "max_output_tokens",
			Value:  *opts.MaxOutputTokens,
			Reason: fmt.Sprintf("must be positive, got %d", *opts.MaxOutputTokens),
			Err:    ErrInvalidRequest,
		}
	}

	return nil
}

// GetStore returns the store preference with a default fallback.
func (o *GenerateOptions) GetStore(defaultValue bool) bool {
	if o == nil || o.Store == nil {
		return defaultValue
	}
	return *o.Store
}

// GetMaxOutputTokens returns max_output_tokens with default fallback.
func (o *GenerateOptions) GetMaxOutputTokens(defaultValue int) int {
	if o == nil || o.MaxOutputTokens == nil {
		return defaultValue
	}
	return *o.MaxOutputTokens
}

// ReasoningRequested returns true if reasoning should be requested on the
// wire: an effort level is set and it is not EffortDisabled.
func (o *GenerateOptions) ReasoningRequested() bool {
	return o != nil && o.ReasoningEffort != "" && o.ReasoningEffort != EffortDisabled
}
