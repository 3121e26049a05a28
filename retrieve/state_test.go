package retrieve

import (
	"testing"

	"github.com/poiesic/reperit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Accumulation(t *testing.T) {
	state := newState("deposit outflows", core.QueryTypeResearchQuestion)

	state.Merge([]*core.Chunk{
		{Id: 1, Score: 0.6, Provenance: []string{"original"}},
		{Id: 2, Score: 0.9, Provenance: []string{"causal"}},
	})
	state.Merge([]*core.Chunk{
		{Id: 1, Score: 0.8, Provenance: []string{"timeline"}},
		{Id: 3, Score: 0.5, Provenance: []string{"timeline"}},
	})

	assert.Equal(t, 3, state.Size())

	ranked := state.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, core.ID(2), ranked[0].Id)
	assert.Equal(t, core.ID(1), ranked[1].Id)
	assert.Equal(t, float32(0.8), ranked[1].Score)
	assert.ElementsMatch(t, []string{"original", "timeline"}, ranked[1].Provenance)
	assert.Equal(t, core.ID(3), ranked[2].Id)
}

func TestState_UsedDimensions(t *testing.T) {
	state := newState("q", core.QueryTypeResearchQuestion)
	assert.Empty(t, state.UsedDimensions())

	state.AddExpansions([]core.ExpandedQuery{
		{Dimension: "causal_drivers"},
		{Dimension: "timeline"},
	})
	state.AddExpansions([]core.ExpandedQuery{
		{Dimension: "policy_response"},
	})

	assert.Equal(t, []string{"causal_drivers", "timeline", "policy_response"}, state.UsedDimensions())
}

func TestTrace_CollectsPasses(t *testing.T) {
	trace := NewTrace()

	trace.QueryClassified("q", core.QueryTypeDataLookup)
	trace.QueriesExpanded(0, []core.ExpandedQuery{{Dimension: "causal"}})
	trace.PassSearched(0, []*core.Chunk{{Id: 1}, {Id: 2}})
	trace.SufficiencyJudged(0, core.Verdict{Sufficient: false, MissingAspect: "gap"})

	trace.QueriesExpanded(1, []core.ExpandedQuery{{Dimension: "gap-filler"}})
	trace.PassSearched(1, []*core.Chunk{{Id: 3}})
	trace.SufficiencyJudged(1, core.Verdict{Sufficient: true})

	assert.Equal(t, "q", trace.Query)
	assert.Equal(t, core.QueryTypeDataLookup, trace.Classification)

	require.Len(t, trace.Passes, 2)
	assert.Equal(t, []core.ID{1, 2}, trace.Passes[0].ChunkIds)
	assert.Equal(t, "gap", trace.Passes[0].Verdict.MissingAspect)
	assert.Equal(t, []core.ID{3}, trace.Passes[1].ChunkIds)
	assert.True(t, trace.Passes[1].Verdict.Sufficient)
}
