package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  "{\"a\": 1}",
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  "{\"a\": 1}",
		},
		{
			name:  "no fence",
			input: "{\"a\": 1}",
			want:  "{\"a\": 1}",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n{\"a\": 1}\n  ",
			want:  "{\"a\": 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("", 5))
}

func TestRepairJSON(t *testing.T) {
	t.Run("valid JSON unchanged", func(t *testing.T) {
		input := `{"sufficient": true, "missing_aspect": ""}`
		assert.Equal(t, input, repairJSON(input))
	})

	t.Run("missing opening quote on key", func(t *testing.T) {
		input := `{sufficient": true, missing_aspect": "policy"}`
		repaired := repairJSON(input)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(repaired), &parsed))
		assert.Equal(t, true, parsed["sufficient"])
		assert.Equal(t, "policy", parsed["missing_aspect"])
	})
}
