package responses

import (
	"github.com/highwaterlabs/highwater-llm-go"
)

// wireUsage decodes both token-accounting shapes the API family emits:
//
//   - Responses shape: input_tokens / output_tokens with
//     input_tokens_details.cached_tokens, where the input count already
//     includes the cached tokens.
//   - Chat-completions shape: prompt_tokens / completion_tokens with
//     cache_creation_input_tokens and cache_read_input_tokens reported
//     separately, additional to the prompt count.
//
// The convention is selected from which fields are present on the
// payload, never assumed globally.
type wireUsage struct {
	InputTokens        *int                    `json:"input_tokens,omitempty"`
	OutputTokens       int                     `json:"output_tokens,omitempty"`
	InputTokensDetails *wireInputTokenDetails  `json:"input_tokens_details,omitempty"`
	OutputTokenDetails *wireOutputTokenDetails `json:"output_tokens_details,omitempty"`

	PromptTokens             *int `json:"prompt_tokens,omitempty"`
	CompletionTokens         int  `json:"completion_tokens,omitempty"`
	CacheCreationInputTokens int  `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int  `json:"cache_read_input_tokens,omitempty"`
}

type wireInputTokenDetails struct {
	CachedTokens int `json:"cached_tokens"`
}

type wireOutputTokenDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// toRaw converts the wire shape into the canonical raw accounting record,
// choosing the cache convention from the payload shape.
func (u *wireUsage) toRaw() llmprovider.RawUsage {
	raw := llmprovider.RawUsage{}

	switch {
	case u.InputTokens != nil:
		// Responses shape: cached tokens are included in input_tokens.
		raw.InputTokens = *u.InputTokens
		raw.OutputTokens = u.OutputTokens
		raw.InputIncludesCache = true
		if u.InputTokensDetails != nil {
			raw.CacheReadTokens = u.InputTokensDetails.CachedTokens
		}
		if u.OutputTokenDetails != nil {
			raw.ReasoningTokens = u.OutputTokenDetails.ReasoningTokens
		}

	case u.PromptTokens != nil:
		// Chat shape: cache tokens are additional to prompt_tokens.
		raw.InputTokens = *u.PromptTokens
		raw.OutputTokens = u.CompletionTokens
		raw.CacheWriteTokens = u.CacheCreationInputTokens
		raw.CacheReadTokens = u.CacheReadInputTokens
	}

	return raw
}
