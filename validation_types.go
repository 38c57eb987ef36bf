package llmprovider

// Severity indicates how serious a validation warning is
type Severity string

const (
	SeverityInfo    Severity = "info"    // Informational (might be expected)
	SeverityWarning Severity = "warning" // Potentially problematic
	SeverityError   Severity = "error"   // Likely to cause API failure
)

// WarningCode is a machine-readable identifier for validation warnings
type WarningCode string

const (
	// Model warnings
	WarningCodeModelUnknown WarningCode = "MODEL_UNKNOWN"

	// Capability gating warnings. Gating itself is silent at request-build
	// time; these surface what will be dropped so callers can tell.
	WarningCodeReasoningUnsupported WarningCode = "REASONING_UNSUPPORTED"
	WarningCodeVerbosityUnsupported WarningCode = "VERBOSITY_UNSUPPORTED"
	WarningCodeVisionUnsupported    WarningCode = "VISION_UNSUPPORTED"

	// Background warnings
	WarningCodeStoreOverridden    WarningCode = "STORE_OVERRIDDEN"
	WarningCodeBackgroundAlwaysOn WarningCode = "BACKGROUND_ALWAYS_ON"

	// Parameter warnings
	WarningCodeMaxTokensExceedsLimit WarningCode = "MAX_TOKENS_EXCEEDS_LIMIT"
)

// ValidationWarning represents a potential issue that might cause API failure
// or surprising behavior. These are informational - the library doesn't block
// requests based on warnings. Provider APIs are the source of truth for
// validation.
type ValidationWarning struct {
	Code     WarningCode // Machine-readable code
	Category string      // "model", "reasoning", "verbosity", "vision", "background", "parameter"
	Field    string      // Field that might cause issues
	Value    any         // The potentially problematic value
	Message  string      // Human-readable warning
	Severity Severity    // How serious this warning is
}

// ValidationRule interface allows adding custom validation logic
type ValidationRule interface {
	// Name returns a human-readable name for this rule
	Name() string

	// Check inspects a request and returns warnings
	Check(provider string, req *GenerationRequest) []ValidationWarning
}
