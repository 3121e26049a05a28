package retrieve

import (
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/search"
)

// State carries everything the loop has gathered so far: the classified
// query, every expansion issued, the accumulated chunk set, and the
// verdicts from each evaluation pass. Accumulation is append-only; a
// chunk is never dropped between passes.
type State struct {
	Query      core.Query
	Expansions []core.ExpandedQuery
	Verdicts   []core.Verdict
	Passes     int

	chunks map[core.ID]*core.Chunk
}

func newState(text string, queryType core.QueryType) *State {
	return &State{
		Query:  core.Query{Text: text, Type: queryType},
		chunks: make(map[core.ID]*core.Chunk),
	}
}

func (s *State) AddExpansions(expansions []core.ExpandedQuery) {
	s.Expansions = append(s.Expansions, expansions...)
}

// UsedDimensions returns every dimension name issued so far, so the
// expander can be told not to repeat them.
func (s *State) UsedDimensions() []string {
	dims := make([]string, 0, len(s.Expansions))
	for _, exp := range s.Expansions {
		dims = append(dims, exp.Dimension)
	}
	return dims
}

func (s *State) AddVerdict(verdict core.Verdict) {
	s.Verdicts = append(s.Verdicts, verdict)
}

// Merge folds one pass's chunks into the accumulated set, keeping the
// highest score per id and unioning provenance.
func (s *State) Merge(chunks []*core.Chunk) {
	search.MergeChunks(s.chunks, chunks)
}

// Ranked returns the accumulated chunks by descending score with
// deterministic tie-breaking.
func (s *State) Ranked() []*core.Chunk {
	return search.Ranked(s.chunks)
}

func (s *State) Size() int {
	return len(s.chunks)
}
