package llmprovider

import (
	"errors"
	"testing"
)

func TestValidateGenerateOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    *GenerateOptions
		wantErr bool
	}{
		{"nil options valid", nil, false},
		{"zero options valid", &GenerateOptions{}, false},
		{"valid effort", &GenerateOptions{ReasoningEffort: EffortHigh}, false},
		{"disabled effort valid", &GenerateOptions{ReasoningEffort: EffortDisabled}, false},
		{"invalid effort", &GenerateOptions{ReasoningEffort: "extreme"}, true},
		{"valid verbosity", &GenerateOptions{Verbosity: VerbosityMedium}, false},
		{"invalid verbosity", &GenerateOptions{Verbosity: "verbose"}, true},
		{"positive max tokens", &GenerateOptions{MaxOutputTokens: intPtr(1)}, false},
		{"zero max tokens", &GenerateOptions{MaxOutputTokens: intPtr(0)}, true},
		{"negative max tokens", &GenerateOptions{MaxOutputTokens: intPtr(-5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerateOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGenerateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("validation error does not wrap ErrInvalidRequest: %v", err)
			}
		})
	}
}

func TestReasoningRequested(t *testing.T) {
	tests := []struct {
		name string
		opts *GenerateOptions
		want bool
	}{
		{"nil options", nil, false},
		{"unset effort", &GenerateOptions{}, false},
		{"disabled effort", &GenerateOptions{ReasoningEffort: EffortDisabled}, false},
		{"minimal effort", &GenerateOptions{ReasoningEffort: EffortMinimal}, true},
		{"high effort", &GenerateOptions{ReasoningEffort: EffortHigh}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.ReasoningRequested(); got != tt.want {
				t.Errorf("ReasoningRequested() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionGetters(t *testing.T) {
	var nilOpts *GenerateOptions
	if got := nilOpts.GetStore(true); got != true {
		t.Errorf("nil GetStore(true) = %v", got)
	}
	if got := nilOpts.GetMaxOutputTokens(42); got != 42 {
		t.Errorf("nil GetMaxOutputTokens(42) = %d", got)
	}

	opts := &GenerateOptions{Store: boolPtr(false), MaxOutputTokens: intPtr(7)}
	if got := opts.GetStore(true); got != false {
		t.Errorf("GetStore(true) = %v, want explicit false", got)
	}
	if got := opts.GetMaxOutputTokens(42); got != 7 {
		t.Errorf("GetMaxOutputTokens(42) = %d, want 7", got)
	}
}
