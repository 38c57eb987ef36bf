package llmprovider

import (
	"testing"
)

func TestMergeConsecutiveTurns(t *testing.T) {
	tests := []struct {
		name      string
		turns     []Turn
		wantRoles []string
		wantParts []int // parts per merged turn
	}{
		{
			name: "alternating turns unchanged",
			turns: []Turn{
				NewTextTurn(RoleUser, "a"),
				NewTextTurn(RoleAssistant, "b"),
				NewTextTurn(RoleUser, "c"),
			},
			wantRoles: []string{RoleUser, RoleAssistant, RoleUser},
			wantParts: []int{1, 1, 1},
		},
		{
			name: "consecutive user turns merged",
			turns: []Turn{
				NewTextTurn(RoleUser, "a"),
				NewTextTurn(RoleUser, "b"),
				NewTextTurn(RoleAssistant, "c"),
			},
			wantRoles: []string{RoleUser, RoleAssistant},
			wantParts: []int{2, 1},
		},
		{
			name: "run of three collapses to one",
			turns: []Turn{
				NewTextTurn(RoleAssistant, "a"),
				NewTextTurn(RoleAssistant, "b"),
				NewTextTurn(RoleAssistant, "c"),
			},
			wantRoles: []string{RoleAssistant},
			wantParts: []int{3},
		},
		{
			name:      "empty input",
			turns:     nil,
			wantRoles: nil,
			wantParts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeConsecutiveTurns(tt.turns)
			if len(got) != len(tt.wantRoles) {
				t.Fatalf("got %d turns, want %d", len(got), len(tt.wantRoles))
			}
			for i := range got {
				if got[i].Role != tt.wantRoles[i] {
					t.Errorf("turn %d role = %s, want %s", i, got[i].Role, tt.wantRoles[i])
				}
				if len(got[i].Parts) != tt.wantParts[i] {
					t.Errorf("turn %d parts = %d, want %d", i, len(got[i].Parts), tt.wantParts[i])
				}
			}
		})
	}
}

func TestMergeConsecutiveTurns_DoesNotMutateInput(t *testing.T) {
	turns := []Turn{
		NewTextTurn(RoleUser, "a"),
		NewTextTurn(RoleUser, "b"),
	}

	merged := MergeConsecutiveTurns(turns)

	if len(turns[0].Parts) != 1 {
		t.Errorf("input turn mutated: parts = %d, want 1", len(turns[0].Parts))
	}
	if len(merged[0].Parts) != 2 {
		t.Errorf("merged parts = %d, want 2", len(merged[0].Parts))
	}
}

func TestExtractSystemInstructions(t *testing.T) {
	turns := []Turn{
		NewTextTurn(RoleSystem, "answer in French"),
		NewTextTurn(RoleUser, "hello"),
		NewTextTurn(RoleSystem, "be polite"),
		NewTextTurn(RoleAssistant, "bonjour"),
	}

	instructions, remaining := ExtractSystemInstructions("be brief", turns)

	if instructions != "be brief\n\nanswer in French\n\nbe polite" {
		t.Errorf("instructions = %q", instructions)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d turns, want 2", len(remaining))
	}
	if remaining[0].Role != RoleUser || remaining[1].Role != RoleAssistant {
		t.Errorf("remaining roles = %s, %s", remaining[0].Role, remaining[1].Role)
	}
}

func TestExtractSystemInstructions_NoSystemContent(t *testing.T) {
	turns := []Turn{NewTextTurn(RoleUser, "hello")}

	instructions, remaining := ExtractSystemInstructions("", turns)

	if instructions != "" {
		t.Errorf("instructions = %q, want empty", instructions)
	}
	if len(remaining) != 1 {
		t.Errorf("remaining = %d turns, want 1", len(remaining))
	}
}

func TestFlattenTextParts(t *testing.T) {
	turn := Turn{
		Role: RoleUser,
		Parts: []Part{
			NewTextPart("look at this"),
			NewImagePart("image/png", "aGVsbG8="),
			NewTextPart("what is it?"),
		},
	}

	if got := FlattenTextParts(turn); got != "look at this\nwhat is it?" {
		t.Errorf("FlattenTextParts = %q", got)
	}
}
