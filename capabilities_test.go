package llmprovider

import (
	"math"
	"testing"
)

func TestGetCapabilityRegistry(t *testing.T) {
	registry := GetCapabilityRegistry()
	if registry == nil {
		t.Fatal("GetCapabilityRegistry() returned nil")
	}

	// Singleton: same instance every time.
	if registry != GetCapabilityRegistry() {
		t.Error("GetCapabilityRegistry() returned different instances")
	}
}

func TestEmbeddedOpenAICapabilities(t *testing.T) {
	registry := GetCapabilityRegistry()

	caps, err := registry.GetProviderCapabilities("openai")
	if err != nil {
		t.Fatalf("GetProviderCapabilities(openai) error = %v", err)
	}
	if caps.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", caps.Provider)
	}
	if len(caps.Models) == 0 {
		t.Fatal("no models loaded from embedded YAML")
	}

	tests := []struct {
		model                 string
		reasoning             bool
		verbosity             bool
		backgroundDefault     bool
		immutableInstructions bool
	}{
		{"gpt-5.1", true, true, false, false},
		{"gpt-5.1-mini", true, true, false, false},
		{"gpt-5.1-codex", true, false, false, true},
		{"o3-deep-research", true, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			cap, err := registry.GetModelCapability("openai", tt.model)
			if err != nil {
				t.Fatalf("GetModelCapability() error = %v", err)
			}
			if cap.Features.Reasoning != tt.reasoning {
				t.Errorf("Reasoning = %v, want %v", cap.Features.Reasoning, tt.reasoning)
			}
			if cap.Features.Verbosity != tt.verbosity {
				t.Errorf("Verbosity = %v, want %v", cap.Features.Verbosity, tt.verbosity)
			}
			if cap.Features.BackgroundDefault != tt.backgroundDefault {
				t.Errorf("BackgroundDefault = %v, want %v", cap.Features.BackgroundDefault, tt.backgroundDefault)
			}
			if cap.Features.ImmutableInstructions != tt.immutableInstructions {
				t.Errorf("ImmutableInstructions = %v, want %v", cap.Features.ImmutableInstructions, tt.immutableInstructions)
			}
		})
	}
}

func TestGetModelCapabilityUnknown(t *testing.T) {
	registry := GetCapabilityRegistry()

	if _, err := registry.GetModelCapability("openai", "no-such-model"); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := registry.GetModelCapability("no-such-provider", "gpt-5.1"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if registry.SupportsModel("openai", "no-such-model") {
		t.Error("SupportsModel() = true for unknown model")
	}
}

func TestResolvePricingBase(t *testing.T) {
	m := &ModelCapability{
		Pricing: PricingInfo{InputPer1M: 1.25, OutputPer1M: 10.0, CacheReadPer1M: 0.125},
	}

	p := m.ResolvePricing(50_000, "")
	if p.InputPer1M != 1.25 || p.OutputPer1M != 10.0 || p.CacheReadPer1M != 0.125 {
		t.Errorf("ResolvePricing() = %+v, want base pricing unchanged", p)
	}
}

func TestResolvePricingContextTiers(t *testing.T) {
	m := &ModelCapability{
		Pricing: PricingInfo{InputPer1M: 99, OutputPer1M: 99}, // superseded by tiers
		PricingTiers: []PriceTier{
			// Deliberately out of order; resolution sorts.
			{ContextUpTo: 1_047_576, Pricing: PricingInfo{InputPer1M: 3.0, OutputPer1M: 12.0}},
			{ContextUpTo: 128_000, Pricing: PricingInfo{InputPer1M: 2.0, OutputPer1M: 8.0}},
		},
	}

	tests := []struct {
		name        string
		totalInput  int
		wantInput1M float64
	}{
		{"well under first boundary", 1_000, 2.0},
		{"exactly at first boundary", 128_000, 2.0},
		{"just over first boundary", 128_001, 3.0},
		{"at second boundary", 1_047_576, 3.0},
		{"above all boundaries uses highest tier", 2_000_000, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.ResolvePricing(tt.totalInput, "")
			if p.InputPer1M != tt.wantInput1M {
				t.Errorf("InputPer1M = %v, want %v", p.InputPer1M, tt.wantInput1M)
			}
		})
	}
}

func TestResolvePricingServiceTierOverrides(t *testing.T) {
	m := &ModelCapability{
		Pricing: PricingInfo{InputPer1M: 1.25, OutputPer1M: 10.0, CacheReadPer1M: 0.125},
		ServiceTiers: map[string]PricingOverride{
			"flex": {
				InputPer1M:  float64Ptr(0.625),
				OutputPer1M: float64Ptr(5.0),
			},
		},
	}

	tests := []struct {
		name          string
		tier          string
		wantInput1M   float64
		wantOutput1M  float64
		wantCacheRead float64
	}{
		{"no tier keeps base", "", 1.25, 10.0, 0.125},
		{"unknown tier keeps base", "priority", 1.25, 10.0, 0.125},
		{"flex overrides input and output only", "flex", 0.625, 5.0, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.ResolvePricing(1_000, tt.tier)
			if p.InputPer1M != tt.wantInput1M {
				t.Errorf("InputPer1M = %v, want %v", p.InputPer1M, tt.wantInput1M)
			}
			if p.OutputPer1M != tt.wantOutput1M {
				t.Errorf("OutputPer1M = %v, want %v", p.OutputPer1M, tt.wantOutput1M)
			}
			if p.CacheReadPer1M != tt.wantCacheRead {
				t.Errorf("CacheReadPer1M = %v, want %v", p.CacheReadPer1M, tt.wantCacheRead)
			}
		})
	}
}

func TestResolvePricingTiersThenServiceOverride(t *testing.T) {
	m := &ModelCapability{
		PricingTiers: []PriceTier{
			{ContextUpTo: 128_000, Pricing: PricingInfo{InputPer1M: 2.0, OutputPer1M: 8.0}},
			{ContextUpTo: 1_047_576, Pricing: PricingInfo{InputPer1M: 3.0, OutputPer1M: 12.0}},
		},
		ServiceTiers: map[string]PricingOverride{
			"flex": {OutputPer1M: float64Ptr(4.0)},
		},
	}

	p := m.ResolvePricing(200_000, "flex")
	if p.InputPer1M != 3.0 {
		t.Errorf("InputPer1M = %v, want second context tier 3.0", p.InputPer1M)
	}
	if p.OutputPer1M != 4.0 {
		t.Errorf("OutputPer1M = %v, want flex override 4.0", p.OutputPer1M)
	}
}

func TestRegisterProviderCapabilities(t *testing.T) {
	registry := GetCapabilityRegistry()

	registry.RegisterProviderCapabilities("testprov", &ProviderCapabilities{
		Provider: "testprov",
		Models: map[string]ModelCapability{
			"test-model": {Features: ModelFeatures{Reasoning: true, Streaming: true}},
		},
	})

	if !registry.SupportsModel("testprov", "test-model") {
		t.Error("registered model not found")
	}
	if !registry.SupportsReasoning("testprov", "test-model") {
		t.Error("SupportsReasoning() = false for registered reasoning model")
	}
	if registry.SupportsVerbosity("testprov", "test-model") {
		t.Error("SupportsVerbosity() = true, want false")
	}
}

func TestTieredPricingFromEmbeddedYAML(t *testing.T) {
	registry := GetCapabilityRegistry()

	cap, err := registry.GetModelCapability("openai", "gpt-4.1")
	if err != nil {
		t.Fatalf("GetModelCapability(gpt-4.1) error = %v", err)
	}
	if len(cap.PricingTiers) != 2 {
		t.Fatalf("len(PricingTiers) = %d, want 2", len(cap.PricingTiers))
	}

	low := cap.ResolvePricing(10_000, "")
	high := cap.ResolvePricing(500_000, "")
	if !(low.InputPer1M < high.InputPer1M) {
		t.Errorf("tiered pricing not increasing: low %v, high %v", low.InputPer1M, high.InputPer1M)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-10
}
