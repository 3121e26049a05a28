package search

import (
	"testing"

	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMatch(t *testing.T) {
	acc := make(map[core.ID]*core.Chunk)

	MergeMatch(acc, index.Match{Id: 1, Score: 0.5, Text: "chunk"}, "original")
	require.Len(t, acc, 1)
	assert.Equal(t, []string{"original"}, acc[1].Provenance)

	t.Run("higher score wins", func(t *testing.T) {
		MergeMatch(acc, index.Match{Id: 1, Score: 0.7, Text: "chunk"}, "causal")
		assert.Equal(t, float32(0.7), acc[1].Score)
		assert.Equal(t, []string{"original", "causal"}, acc[1].Provenance)
	})

	t.Run("lower score keeps max", func(t *testing.T) {
		MergeMatch(acc, index.Match{Id: 1, Score: 0.3, Text: "chunk"}, "timeline")
		assert.Equal(t, float32(0.7), acc[1].Score)
	})

	t.Run("repeated dimension not duplicated", func(t *testing.T) {
		MergeMatch(acc, index.Match{Id: 1, Score: 0.4, Text: "chunk"}, "causal")
		assert.Equal(t, []string{"original", "causal", "timeline"}, acc[1].Provenance)
	})
}

func TestMergeChunks(t *testing.T) {
	acc := map[core.ID]*core.Chunk{
		1: {Id: 1, Score: 0.6, Provenance: []string{"original"}},
	}

	MergeChunks(acc, []*core.Chunk{
		{Id: 1, Score: 0.8, Provenance: []string{"causal", "original"}},
		{Id: 2, Score: 0.5, Provenance: []string{"timeline"}},
	})

	require.Len(t, acc, 2)
	assert.Equal(t, float32(0.8), acc[1].Score)
	assert.ElementsMatch(t, []string{"original", "causal"}, acc[1].Provenance)
	assert.Equal(t, []string{"timeline"}, acc[2].Provenance)
}

func TestRanked(t *testing.T) {
	acc := map[core.ID]*core.Chunk{
		3: {Id: 3, Score: 0.5},
		1: {Id: 1, Score: 0.9},
		2: {Id: 2, Score: 0.5},
	}

	ranked := Ranked(acc)
	require.Len(t, ranked, 3)

	assert.Equal(t, core.ID(1), ranked[0].Id)
	// Tied scores break by id for deterministic ordering
	assert.Equal(t, core.ID(2), ranked[1].Id)
	assert.Equal(t, core.ID(3), ranked[2].Id)
}

func TestRanked_Empty(t *testing.T) {
	assert.Empty(t, Ranked(map[core.ID]*core.Chunk{}))
}
