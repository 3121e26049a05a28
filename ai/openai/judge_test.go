package openai

import (
	"strings"
	"testing"
	"time"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatSummaries(t *testing.T) {
	t.Run("no evidence placeholder", func(t *testing.T) {
		out := formatSummaries(nil, 240)
		assert.Contains(t, out, "no evidence retrieved")
	})

	t.Run("per chunk lines", func(t *testing.T) {
		evidence := []ai.ChunkSummary{
			{
				Id:     core.ID(42),
				Score:  0.81,
				Source: "Goldman Sachs",
				Date:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				Text:   "deposits fell 4% in Q1",
			},
			{
				Id:    core.ID(7),
				Score: 0.55,
				Text:  "no source metadata",
			},
		}

		out := formatSummaries(evidence, 240)
		assert.Contains(t, out, "[42]")
		assert.Contains(t, out, "(0.81)")
		assert.Contains(t, out, "Goldman Sachs")
		assert.Contains(t, out, "2024-03-15")
		assert.Contains(t, out, "deposits fell 4% in Q1")
		assert.Contains(t, out, "[7]")
	})

	t.Run("truncates chunk text to snippet length", func(t *testing.T) {
		long := strings.Repeat("liquidity coverage ratio ", 40)
		evidence := []ai.ChunkSummary{
			{Id: core.ID(1), Score: 0.9, Text: long},
		}

		out := formatSummaries(evidence, 50)
		assert.Contains(t, out, long[:50]+"...")
		assert.NotContains(t, out, long)
	})

	t.Run("short text kept whole", func(t *testing.T) {
		evidence := []ai.ChunkSummary{
			{Id: core.ID(1), Score: 0.9, Text: "repo rates spiked"},
		}

		out := formatSummaries(evidence, 50)
		assert.Contains(t, out, "repo rates spiked")
		assert.NotContains(t, out, "...")
	})
}
