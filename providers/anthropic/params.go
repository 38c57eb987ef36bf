package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/highwaterlabs/highwater-llm-go"
)

const defaultMaxTokens = 4096

// Reasoning effort levels map onto thinking token budgets. Anthropic's
// API takes an explicit budget rather than a named level.
var effortBudgets = map[llmprovider.ReasoningEffort]int64{
	llmprovider.EffortMinimal: 1024,
	llmprovider.EffortLow:     2048,
	llmprovider.EffortMedium:  8192,
	llmprovider.EffortHigh:    16384,
	llmprovider.EffortXHigh:   32768,
}

// buildMessageParams constructs Anthropic API parameters from a GenerationRequest.
// This function is shared between GenerateResponse and StreamResponse to avoid duplication.
func buildMessageParams(req *llmprovider.GenerationRequest) (anthropic.MessageNewParams, error) {
	// The Messages API takes instructions in a dedicated system field and
	// requires strict user/assistant alternation, so system turns are
	// lifted out and same-role runs merged before conversion.
	instructions, turns := llmprovider.ExtractSystemInstructions(req.Instructions, req.Turns)
	turns = llmprovider.MergeConsecutiveTurns(turns)

	messages, err := convertToAnthropicMessages(turns)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to convert turns: %w", err)
	}

	opts := req.Options
	if opts == nil {
		opts = &llmprovider.GenerateOptions{}
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: int64(opts.GetMaxOutputTokens(defaultMaxTokens)),
	}

	if instructions != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: instructions,
			},
		}
	}

	// Thinking mode - convert the effort level to a token budget
	if opts.ReasoningRequested() {
		if budget, ok := effortBudgets[opts.ReasoningEffort]; ok {
			apiParams.Thinking = anthropic.ThinkingConfigParamOfEnabled(budget)
		}
	}

	return apiParams, nil
}
