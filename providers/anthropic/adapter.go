package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/highwaterlabs/highwater-llm-go"
)

// convertToAnthropicMessages converts library turns to Anthropic SDK format.
// System turns must already have been lifted out (the Messages API rejects
// a system role inside the message list).
func convertToAnthropicMessages(turns []llmprovider.Turn) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for i, turn := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Parts))

		for j, part := range turn.Parts {
			switch part.Type {
			case llmprovider.PartTypeText:
				if part.Text == "" {
					continue
				}
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))

			case llmprovider.PartTypeImage:
				if part.ImageData == "" {
					return nil, fmt.Errorf("turn %d, part %d: image part missing data", i, j)
				}
				mime := part.ImageMIME
				if mime == "" {
					mime = "image/png"
				}
				blocks = append(blocks, anthropic.NewImageBlockBase64(mime, part.ImageData))

			default:
				return nil, fmt.Errorf("turn %d, part %d: unsupported part type '%s'", i, j, part.Type)
			}
		}

		if len(blocks) == 0 {
			continue
		}

		var message anthropic.MessageParam
		switch turn.Role {
		case llmprovider.RoleUser:
			message = anthropic.NewUserMessage(blocks...)
		case llmprovider.RoleAssistant:
			message = anthropic.NewAssistantMessage(blocks...)
		default:
			return nil, fmt.Errorf("turn %d: unsupported role '%s'", i, turn.Role)
		}

		result = append(result, message)
	}

	return result, nil
}

// flattenAnthropicContent joins the text and thinking carried by a final
// message's content blocks.
func flattenAnthropicContent(content []anthropic.ContentBlockUnion) (text, reasoning string) {
	var tb, rb strings.Builder
	for _, block := range content {
		switch block.Type {
		case "text":
			tb.WriteString(block.Text)
		case "thinking":
			rb.WriteString(block.Thinking)
		}
	}
	return tb.String(), rb.String()
}

// anthropicUsageToRaw maps the SDK usage shape onto the canonical raw
// record. Anthropic reports cache tokens additional to input_tokens.
func anthropicUsageToRaw(usage anthropic.Usage) llmprovider.RawUsage {
	return llmprovider.RawUsage{
		InputTokens:      int(usage.InputTokens),
		OutputTokens:     int(usage.OutputTokens),
		CacheWriteTokens: int(usage.CacheCreationInputTokens),
		CacheReadTokens:  int(usage.CacheReadInputTokens),
	}
}

// convertFromAnthropicResponse converts an Anthropic response to library format.
func convertFromAnthropicResponse(msg *anthropic.Message) *llmprovider.GenerateResponse {
	text, reasoning := flattenAnthropicContent(msg.Content)

	usage := llmprovider.NormalizeUsage(anthropicUsageToRaw(msg.Usage), nil, "")

	return &llmprovider.GenerateResponse{
		Text:       text,
		Reasoning:  reasoning,
		ResponseID: msg.ID,
		Model:      string(msg.Model),
		Usage:      &usage,
	}
}
