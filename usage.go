package llmprovider

// Usage is the canonical token-accounting record for one completed
// generation. InputTokens counts non-cached input tokens only; cached
// reads and writes are carried separately so each field can be priced
// independently.
type Usage struct {
	// InputTokens is the number of non-cached input tokens
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the number of generated tokens
	OutputTokens int `json:"output_tokens"`

	// CacheWriteTokens is the number of tokens written to the prompt cache
	CacheWriteTokens int `json:"cache_write_tokens,omitempty"`

	// CacheReadTokens is the number of tokens served from the prompt cache
	CacheReadTokens int `json:"cache_read_tokens,omitempty"`

	// ReasoningTokens is the number of output tokens spent on reasoning
	ReasoningTokens int `json:"reasoning_tokens,omitempty"`

	// TotalCost is the computed cost in USD (nil when no pricing is known)
	TotalCost *float64 `json:"total_cost,omitempty"`
}

// TotalInputTokens returns the full input size including cached tokens,
// which is what context-length pricing tiers are keyed on.
func (u *Usage) TotalInputTokens() int {
	return u.InputTokens + u.CacheReadTokens + u.CacheWriteTokens
}

// RawUsage is a provider-reported accounting shape before normalization.
// Providers disagree on one point: whether the reported input count
// already includes cached tokens. InputIncludesCache selects the
// convention; it must be derived from the shape of the provider payload,
// never assumed globally.
type RawUsage struct {
	InputTokens      int
	OutputTokens     int
	CacheWriteTokens int
	CacheReadTokens  int
	ReasoningTokens  int

	// InputIncludesCache reports whether InputTokens already counts
	// CacheReadTokens. When true, cached tokens are subtracted before
	// the non-cache input price applies; when false, the base price
	// applies to the full input count and cache tokens are additional.
	InputIncludesCache bool
}

// NormalizeUsage converts a raw provider accounting shape into the
// canonical Usage record and, when model pricing is available, computes
// the total cost. Pure function: no I/O, no shared state.
func NormalizeUsage(raw RawUsage, modelCap *ModelCapability, serviceTier string) Usage {
	u := Usage{
		InputTokens:      raw.InputTokens,
		OutputTokens:     raw.OutputTokens,
		CacheWriteTokens: raw.CacheWriteTokens,
		CacheReadTokens:  raw.CacheReadTokens,
		ReasoningTokens:  raw.ReasoningTokens,
	}
	if raw.InputIncludesCache {
		u.InputTokens = max(raw.InputTokens-raw.CacheReadTokens, 0)
	}

	if modelCap != nil {
		cost := ComputeCost(u, modelCap, serviceTier)
		u.TotalCost = &cost
	}
	return u
}

// ComputeCost prices a normalized usage record against a model's pricing
// table:
//
//	cost = sum over {input, output, cacheWrite, cacheRead} of
//	       (tokens / 1_000_000) * pricePerMillion
//
// An undefined (zero) price contributes nothing. Context-length tiers and
// service-tier overrides are resolved via ModelCapability.ResolvePricing.
func ComputeCost(u Usage, modelCap *ModelCapability, serviceTier string) float64 {
	p := modelCap.ResolvePricing(u.TotalInputTokens(), serviceTier)

	const million = 1_000_000
	cost := float64(u.InputTokens) / million * p.InputPer1M
	cost += float64(u.OutputTokens) / million * p.OutputPer1M
	cost += float64(u.CacheWriteTokens) / million * p.CacheWritePer1M
	cost += float64(u.CacheReadTokens) / million * p.CacheReadPer1M
	return cost
}
