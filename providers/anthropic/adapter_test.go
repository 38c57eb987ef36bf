package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/highwaterlabs/highwater-llm-go"
)

func TestConvertToAnthropicMessages_Text(t *testing.T) {
	turns := []llmprovider.Turn{
		llmprovider.NewTextTurn(llmprovider.RoleUser, "Hello, world!"),
		llmprovider.NewTextTurn(llmprovider.RoleAssistant, "Hi there."),
	}

	result, err := convertToAnthropicMessages(turns)
	if err != nil {
		t.Fatalf("convertToAnthropicMessages() error = %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result))
	}
	if result[0].Role != "user" {
		t.Errorf("first role = %q, want user", result[0].Role)
	}
	if result[1].Role != "assistant" {
		t.Errorf("second role = %q, want assistant", result[1].Role)
	}
}

func TestConvertToAnthropicMessages_Image(t *testing.T) {
	turns := []llmprovider.Turn{
		{
			Role: llmprovider.RoleUser,
			Parts: []llmprovider.Part{
				llmprovider.NewTextPart("What is in this image?"),
				llmprovider.NewImagePart("image/jpeg", "aGVsbG8="),
			},
		},
	}

	result, err := convertToAnthropicMessages(turns)
	if err != nil {
		t.Fatalf("convertToAnthropicMessages() error = %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result))
	}
	if len(result[0].Content) != 2 {
		t.Errorf("expected 2 content blocks, got %d", len(result[0].Content))
	}
}

func TestConvertToAnthropicMessages_Errors(t *testing.T) {
	tests := []struct {
		name  string
		turns []llmprovider.Turn
	}{
		{
			name: "system role must be lifted first",
			turns: []llmprovider.Turn{
				llmprovider.NewTextTurn(llmprovider.RoleSystem, "be helpful"),
			},
		},
		{
			name: "image missing data",
			turns: []llmprovider.Turn{
				{
					Role:  llmprovider.RoleUser,
					Parts: []llmprovider.Part{{Type: llmprovider.PartTypeImage}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := convertToAnthropicMessages(tt.turns); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuildMessageParams(t *testing.T) {
	req := &llmprovider.GenerationRequest{
		Model:        "claude-sonnet-4-5",
		Instructions: "be brief",
		Turns: []llmprovider.Turn{
			llmprovider.NewTextTurn(llmprovider.RoleSystem, "answer in French"),
			llmprovider.NewTextTurn(llmprovider.RoleUser, "hello"),
			llmprovider.NewTextTurn(llmprovider.RoleUser, "are you there?"),
		},
		Options: &llmprovider.GenerateOptions{
			MaxOutputTokens: intPtr(1000),
			ReasoningEffort: llmprovider.EffortMedium,
		},
	}

	params, err := buildMessageParams(req)
	if err != nil {
		t.Fatalf("buildMessageParams() error = %v", err)
	}

	if params.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want 1000", params.MaxTokens)
	}

	// System turns are lifted into the system field alongside instructions.
	if len(params.System) != 1 {
		t.Fatalf("len(System) = %d, want 1", len(params.System))
	}
	if params.System[0].Text != "be brief\n\nanswer in French" {
		t.Errorf("System text = %q", params.System[0].Text)
	}

	// Consecutive user turns are merged for strict alternation.
	if len(params.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1 merged user message", len(params.Messages))
	}
	if len(params.Messages[0].Content) != 2 {
		t.Errorf("merged content blocks = %d, want 2", len(params.Messages[0].Content))
	}

	if params.Thinking.OfEnabled == nil {
		t.Fatal("Thinking not enabled for medium effort")
	}
	if params.Thinking.OfEnabled.BudgetTokens != 8192 {
		t.Errorf("BudgetTokens = %d, want 8192", params.Thinking.OfEnabled.BudgetTokens)
	}
}

func TestBuildMessageParams_DisabledEffort(t *testing.T) {
	req := &llmprovider.GenerationRequest{
		Model: "claude-sonnet-4-5",
		Turns: []llmprovider.Turn{llmprovider.NewTextTurn(llmprovider.RoleUser, "hi")},
		Options: &llmprovider.GenerateOptions{
			ReasoningEffort: llmprovider.EffortDisabled,
		},
	}

	params, err := buildMessageParams(req)
	if err != nil {
		t.Fatalf("buildMessageParams() error = %v", err)
	}
	if params.Thinking.OfEnabled != nil {
		t.Error("Thinking enabled for disabled effort")
	}
	if params.MaxTokens != defaultMaxTokens {
		t.Errorf("MaxTokens = %d, want default %d", params.MaxTokens, defaultMaxTokens)
	}
}

func TestAnthropicUsageToRaw(t *testing.T) {
	raw := anthropicUsageToRaw(anthropic.Usage{
		InputTokens:              100,
		OutputTokens:             20,
		CacheCreationInputTokens: 7,
		CacheReadInputTokens:     12,
	})

	if raw.InputIncludesCache {
		t.Error("anthropic usage marked as cache-inclusive")
	}
	if raw.InputTokens != 100 || raw.OutputTokens != 20 {
		t.Errorf("tokens = %+v", raw)
	}
	if raw.CacheWriteTokens != 7 || raw.CacheReadTokens != 12 {
		t.Errorf("cache tokens = %+v", raw)
	}
}

func intPtr(i int) *int {
	return &i
}
