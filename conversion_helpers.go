package llmprovider

import (
	"strings"
)

// MergeConsecutiveTurns collapses runs of same-role turns into one turn.
// Some provider APIs require strict user/assistant alternation; adapters
// call this before converting history to the wire format.
//
// Text parts from merged turns are kept as separate parts, in order.
func MergeConsecutiveTurns(turns []Turn) []Turn {
	if len(turns) < 2 {
		return turns
	}

	result := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		if len(result) > 0 && result[len(result)-1].Role == turn.Role {
			last := &result[len(result)-1]
			last.Parts = append(last.Parts, turn.Parts...)
			continue
		}
		// Copy parts so merging never mutates the caller's slices.
		merged := Turn{Role: turn.Role, Parts: make([]Part, len(turn.Parts))}
		copy(merged.Parts, turn.Parts)
		result = append(result, merged)
	}
	return result
}

// ExtractSystemInstructions lifts system turns out of the history and
// joins their text into a single instructions string. Providers that
// carry instructions in a dedicated request field (rather than as a
// conversation turn) use this to split a mixed history.
//
// Returns the joined system text and the remaining non-system turns.
// An explicit instructions argument takes precedence and is prepended.
func ExtractSystemInstructions(instructions string, turns []Turn) (string, []Turn) {
	var parts []string
	if instructions != "" {
		parts = append(parts, instructions)
	}

	remaining := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		if turn.Role != RoleSystem {
			remaining = append(remaining, turn)
			continue
		}
		for _, p := range turn.Parts {
			if p.IsText() && p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}

	return strings.Join(parts, "\n\n"), remaining
}

// FlattenTextParts joins the text parts of a turn into one string.
// Image parts are skipped.
func FlattenTextParts(turn Turn) string {
	var sb strings.Builder
	for _, p := range turn.Parts {
		if p.IsText() && p.Text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
