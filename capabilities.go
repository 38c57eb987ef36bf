package llmprovider

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/capabilities/openai.yaml
var openaiCapabilitiesYAML []byte

// Capabilities Philosophy:
//
// This package provides MODEL METADATA for capability gating, pricing and
// informational purposes. Provider APIs remain the source of truth for
// request validation.
//
// Use cases:
//  - Gate wire-request fields (reasoning, verbosity) per model
//  - Decide background-mode defaults
//  - Compute per-response cost from normalized usage
//
// Capabilities may be outdated as providers release new models/features.
// Library users can override embedded capabilities by:
//  1. Calling LoadCapabilitiesFromFile() with custom YAML
//  2. Calling RegisterProviderCapabilities() programmatically

// ProviderCapabilities represents the full capability configuration for a provider
type ProviderCapabilities struct {
	Version     string                     `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                     `yaml:"last_updated"` // ISO 8601 date (e.g., "2025-01-15")
	Provider    string                     `yaml:"provider"`
	Models      map[string]ModelCapability `yaml:"models"`
}

// ModelCapability represents the capabilities and pricing of a specific model
type ModelCapability struct {
	ContextWindow   int           `yaml:"context_window"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Features        ModelFeatures `yaml:"features"`
	Pricing         PricingInfo   `yaml:"pricing"`

	// PricingTiers defines context-length tiered pricing, ordered by
	// ascending ContextUpTo. The tier whose boundary is the smallest one
	// >= total input tokens applies; above all boundaries the highest
	// tier applies.
	PricingTiers []PriceTier `yaml:"pricing_tiers,omitempty"`

	// ServiceTiers maps a named service tier (e.g. "flex", "priority")
	// to per-field price overrides. An override takes precedence over the
	// base/tiered price for any field it defines.
	ServiceTiers map[string]PricingOverride `yaml:"service_tiers,omitempty"`
}

// ModelFeatures indicates which features a model supports
type ModelFeatures struct {
	Reasoning bool `yaml:"reasoning"`
	Verbosity bool `yaml:"verbosity"`
	Vision    bool `yaml:"vision"`
	Streaming bool `yaml:"streaming"`

	// BackgroundDefault marks models that always run in background mode
	// (long-running generations that must survive connection loss).
	BackgroundDefault bool `yaml:"background_default"`

	// ImmutableInstructions marks models whose server-side instructions
	// cannot be replaced; caller instructions are injected as a synthetic
	// leading turn instead of the dedicated instructions field.
	ImmutableInstructions bool `yaml:"immutable_instructions"`
}

// PricingInfo contains per-million-token prices in USD.
// A zero price means the field is unpriced and contributes nothing to cost.
type PricingInfo struct {
	InputPer1M      float64 `yaml:"input_per_1m"`
	OutputPer1M     float64 `yaml:"output_per_1m"`
	CacheWritePer1M float64 `yaml:"cache_write_per_1m"`
	CacheReadPer1M  float64 `yaml:"cache_read_per_1m"`
}

// PriceTier is a context-length pricing breakpoint.
type PriceTier struct {
	// ContextUpTo is the inclusive upper bound (in total input tokens)
	// for this tier.
	ContextUpTo int         `yaml:"context_up_to"`
	Pricing     PricingInfo `yaml:"pricing"`
}

// PricingOverride contains optional per-field price overrides for a
// named service tier. Nil fields fall through to the base/tiered price.
type PricingOverride struct {
	InputPer1M      *float64 `yaml:"input_per_1m,omitempty"`
	OutputPer1M     *float64 `yaml:"output_per_1m,omitempty"`
	CacheWritePer1M *float64 `yaml:"cache_write_per_1m,omitempty"`
	CacheReadPer1M  *float64 `yaml:"cache_read_per_1m,omitempty"`
}

// ResolvePricing returns the effective per-field prices for a response,
// applying context-length tiers then service-tier overrides.
func (m *ModelCapability) ResolvePricing(totalInputTokens int, serviceTier string) PricingInfo {
	p := m.Pricing

	if len(m.PricingTiers) > 0 {
		tiers := make([]PriceTier, len(m.PricingTiers))
		copy(tiers, m.PricingTiers)
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].ContextUpTo < tiers[j].ContextUpTo })

		// Highest tier applies when the count exceeds all boundaries.
		p = tiers[len(tiers)-1].Pricing
		for _, t := range tiers {
			if totalInputTokens <= t.ContextUpTo {
				p = t.Pricing
				break
			}
		}
	}

	if serviceTier != "" {
		if o, ok := m.ServiceTiers[serviceTier]; ok {
			if o.InputPer1M != nil {
				p.InputPer1M = *o.InputPer1M
			}
			if o.OutputPer1M != nil {
				p.OutputPer1M = *o.OutputPer1M
			}
			if o.CacheWritePer1M != nil {
				p.CacheWritePer1M = *o.CacheWritePer1M
			}
			if o.CacheReadPer1M != nil {
				p.CacheReadPer1M = *o.CacheReadPer1M
			}
		}
	}

	return p
}

// CapabilityRegistry manages provider capabilities
type CapabilityRegistry struct {
	capabilities map[string]*ProviderCapabilities
	mu           sync.RWMutex
}

var (
	globalRegistry     *CapabilityRegistry
	globalRegistryOnce sync.Once
)

// GetCapabilityRegistry returns the global capability registry (singleton)
func GetCapabilityRegistry() *CapabilityRegistry {
	globalRegistryOnce.Do(func() {
		globalRegistry = &CapabilityRegistry{
			capabilities: make(map[string]*ProviderCapabilities),
		}
		if err := globalRegistry.loadOpenAICapabilities(); err != nil {
			// Log but don't panic - lookups fall back to defaults.
			fmt.Printf("Warning: failed to load OpenAI capabilities: %v\n", err)
		}
	})
	return globalRegistry
}

// loadOpenAICapabilities loads the embedded OpenAI YAML
func (r *CapabilityRegistry) loadOpenAICapabilities() error {
	var caps ProviderCapabilities
	if err := yaml.Unmarshal(openaiCapabilitiesYAML, &caps); err != nil {
		return fmt.Errorf("failed to unmarshal OpenAI capabilities: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities["openai"] = &caps

	return nil
}

// GetProviderCapabilities returns capabilities for a provider
func (r *CapabilityRegistry) GetProviderCapabilities(provider string) (*ProviderCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.capabilities[provider]
	if !ok {
		return nil, fmt.Errorf("no capabilities found for provider: %s", provider)
	}
	return caps, nil
}

// GetModelCapability returns capabilities for a specific model
func (r *CapabilityRegistry) GetModelCapability(provider, model string) (*ModelCapability, error) {
	providerCaps, err := r.GetProviderCapabilities(provider)
	if err != nil {
		return nil, err
	}

	modelCap, ok := providerCaps.Models[model]
	if !ok {
		return nil, fmt.Errorf("model %s not found for provider %s", model, provider)
	}
	return &modelCap, nil
}

// SupportsModel checks if a provider supports a specific model
func (r *CapabilityRegistry) SupportsModel(provider, model string) bool {
	_, err := r.GetModelCapability(provider, model)
	return err == nil
}

// SupportsReasoning checks if a model supports reasoning
func (r *CapabilityRegistry) SupportsReasoning(provider, model string) bool {
	modelCap, err := r.GetModelCapability(provider, model)
	if err != nil {
		return false
	}
	return modelCap.Features.Reasoning
}

// SupportsVerbosity checks if a model supports the verbosity knob
func (r *CapabilityRegistry) SupportsVerbosity(provider, model string) bool {
	modelCap, err := r.GetModelCapability(provider, model)
	if err != nil {
		return false
	}
	return modelCap.Features.Verbosity
}

// IsBackgroundDefault checks if a model defaults to background mode
func (r *CapabilityRegistry) IsBackgroundDefault(provider, model string) bool {
	modelCap, err := r.GetModelCapability(provider, model)
	if err != nil {
		return false
	}
	return modelCap.Features.BackgroundDefault
}

// LoadCapabilitiesFromFile loads provider capabilities from a YAML file.
// This allows library users to override embedded capabilities with custom data.
// The file format should match the embedded YAML structure.
func (r *CapabilityRegistry) LoadCapabilitiesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read capabilities file: %w", err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("failed to unmarshal capabilities: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[caps.Provider] = &caps

	return nil
}

// RegisterProviderCapabilities programmatically registers provider capabilities.
// This allows library users to define capabilities in code rather than YAML.
func (r *CapabilityRegistry) RegisterProviderCapabilities(provider string, caps *ProviderCapabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[provider] = caps
}

// LoadCapabilitiesFromFile is a convenience function that calls the global registry's LoadCapabilitiesFromFile.
func LoadCapabilitiesFromFile(path string) error {
	return GetCapabilityRegistry().LoadCapabilitiesFromFile(path)
}

// RegisterProviderCapabilities is a convenience function that calls the global registry's RegisterProviderCapabilities.
func RegisterProviderCapabilities(provider string, caps *ProviderCapabilities) {
	GetCapabilityRegistry().RegisterProviderCapabilities(provider, caps)
}
