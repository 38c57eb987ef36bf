package responses

import (
	"encoding/json"
	"testing"

	"github.com/highwaterlabs/highwater-llm-go"
)

func TestWireUsageShapeDetection(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    llmprovider.RawUsage
	}{
		{
			name:    "responses shape with cached tokens",
			payload: `{"input_tokens":150,"output_tokens":20,"input_tokens_details":{"cached_tokens":50},"output_tokens_details":{"reasoning_tokens":5}}`,
			want: llmprovider.RawUsage{
				InputTokens:        150,
				OutputTokens:       20,
				CacheReadTokens:    50,
				ReasoningTokens:    5,
				InputIncludesCache: true,
			},
		},
		{
			name:    "responses shape without details",
			payload: `{"input_tokens":10,"output_tokens":2}`,
			want: llmprovider.RawUsage{
				InputTokens:        10,
				OutputTokens:       2,
				InputIncludesCache: true,
			},
		},
		{
			name:    "chat shape with additive cache fields",
			payload: `{"prompt_tokens":100,"completion_tokens":30,"cache_creation_input_tokens":7,"cache_read_input_tokens":12}`,
			want: llmprovider.RawUsage{
				InputTokens:      100,
				OutputTokens:     30,
				CacheWriteTokens: 7,
				CacheReadTokens:  12,
			},
		},
		{
			name:    "zero input tokens still selects responses shape",
			payload: `{"input_tokens":0,"output_tokens":1}`,
			want: llmprovider.RawUsage{
				OutputTokens:       1,
				InputIncludesCache: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wu wireUsage
			if err := json.Unmarshal([]byte(tt.payload), &wu); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := wu.toRaw(); got != tt.want {
				t.Errorf("toRaw() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
