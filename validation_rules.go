package llmprovider

import (
	"fmt"
)

// ModelValidationRule checks model-related warnings
type ModelValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ModelValidationRule) Name() string {
	return "Model Validation"
}

func (r *ModelValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	// Check if model exists in capabilities (might be outdated)
	if !r.registry.SupportsModel(provider, req.Model) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeModelUnknown,
			Category: "model",
			Field:    "model",
			Value:    req.Model,
			Message:  fmt.Sprintf("Model %s not found in %s capabilities (capabilities may be outdated)", req.Model, provider),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// ReasoningValidationRule warns when a requested reasoning effort will be
// silently dropped by capability gating.
type ReasoningValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ReasoningValidationRule) Name() string {
	return "Reasoning Validation"
}

func (r *ReasoningValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if !req.Options.ReasoningRequested() {
		return warnings
	}

	modelCap, err := r.registry.GetModelCapability(provider, req.Model)
	if err != nil {
		// Can't check without capabilities
		return warnings
	}

	if !modelCap.Features.Reasoning {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeReasoningUnsupported,
			Category: "reasoning",
			Field:    "reasoning_effort",
			Value:    req.Options.ReasoningEffort,
			Message:  fmt.Sprintf("Model %s does not support reasoning; the effort setting will be omitted from the request", req.Model),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// VerbosityValidationRule warns when a requested verbosity will be silently
// dropped by capability gating.
type VerbosityValidationRule struct {
	registry *CapabilityRegistry
}

func (r *VerbosityValidationRule) Name() string {
	return "Verbosity Validation"
}

func (r *VerbosityValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Options == nil || req.Options.Verbosity == "" {
		return warnings
	}

	modelCap, err := r.registry.GetModelCapability(provider, req.Model)
	if err != nil {
		return warnings
	}

	if !modelCap.Features.Verbosity {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeVerbosityUnsupported,
			Category: "verbosity",
			Field:    "verbosity",
			Value:    req.Options.Verbosity,
			Message:  fmt.Sprintf("Model %s does not support verbosity; the setting will be omitted from the request", req.Model),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// VisionValidationRule checks vision-related warnings
type VisionValidationRule struct {
	registry *CapabilityRegistry
}

func (r *VisionValidationRule) Name() string {
	return "Vision Validation"
}

func (r *VisionValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if !hasImageContent(req.Turns) {
		return warnings
	}

	modelCap, err := r.registry.GetModelCapability(provider, req.Model)
	if err != nil {
		return warnings
	}

	if !modelCap.Features.Vision {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeVisionUnsupported,
			Category: "vision",
			Field:    "turns",
			Value:    "contains images",
			Message:  fmt.Sprintf("Model %s might not support vision (check capabilities)", req.Model),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// BackgroundValidationRule surfaces the side effects of background mode.
type BackgroundValidationRule struct {
	registry *CapabilityRegistry
}

func (r *BackgroundValidationRule) Name() string {
	return "Background Validation"
}

func (r *BackgroundValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Options == nil {
		return warnings
	}

	backgroundDefault := r.registry.IsBackgroundDefault(provider, req.Model)

	// Background mode forces server-side storage; an explicit store=false
	// will be overridden on the wire.
	if (req.Options.Background || backgroundDefault) &&
		req.Options.Store != nil && !*req.Options.Store {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeStoreOverridden,
			Category: "background",
			Field:    "store",
			Value:    false,
			Message:  "Background mode requires server-side storage; store=false will be overridden to true",
			Severity: SeverityInfo,
		})
	}

	if backgroundDefault && !req.Options.Background {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeBackgroundAlwaysOn,
			Category: "background",
			Field:    "background",
			Value:    false,
			Message:  fmt.Sprintf("Model %s always runs in background mode", req.Model),
			Severity: SeverityInfo,
		})
	}

	return warnings
}

// ParameterValidationRule checks parameter range warnings
type ParameterValidationRule struct {
	registry *CapabilityRegistry
}

func (r *ParameterValidationRule) Name() string {
	return "Parameter Validation"
}

func (r *ParameterValidationRule) Check(provider string, req *GenerationRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Options == nil || req.Options.MaxOutputTokens == nil {
		return warnings
	}

	modelCap, err := r.registry.GetModelCapability(provider, req.Model)
	if err != nil {
		// Can't check without capabilities
		return warnings
	}
	if modelCap.MaxOutputTokens <= 0 {
		return warnings
	}

	if tokens := *req.Options.MaxOutputTokens; tokens > modelCap.MaxOutputTokens {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeMaxTokensExceedsLimit,
			Category: "parameter",
			Field:    "max_output_tokens",
			Value:    tokens,
			Message:  fmt.Sprintf("max_output_tokens %d above model limit %d (will likely fail)", tokens, modelCap.MaxOutputTokens),
			Severity: SeverityError,
		})
	}

	return warnings
}

// hasImageContent checks if any turn contains image parts
func hasImageContent(turns []Turn) bool {
	for _, turn := range turns {
		for _, part := range turn.Parts {
			if part.IsImage() {
				return true
			}
		}
	}
	return false
}
