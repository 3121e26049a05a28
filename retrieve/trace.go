package retrieve

import "github.com/poiesic/reperit/core"

// PassTrace records one search/evaluate pass.
type PassTrace struct {
	Pass       int
	Expansions []core.ExpandedQuery
	ChunkIds   []core.ID
	Verdict    core.Verdict
}

// Trace is a Monitor that keeps every intermediate artifact of a run:
// the classification, each pass's expansions, chunk ids and verdict, the
// synthesized context, and the final answer. Not safe for concurrent
// use; attach one Trace per query.
type Trace struct {
	Query          string
	Classification core.QueryType
	Passes         []PassTrace
	Synthesis      core.SynthesizedContext
	Answer         *core.Answer
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) QueryClassified(query string, queryType core.QueryType) {
	t.Query = query
	t.Classification = queryType
}

func (t *Trace) QueriesExpanded(pass int, expansions []core.ExpandedQuery) {
	t.passAt(pass).Expansions = append(t.passAt(pass).Expansions, expansions...)
}

func (t *Trace) PassSearched(pass int, chunks []*core.Chunk) {
	pt := t.passAt(pass)
	for _, chunk := range chunks {
		pt.ChunkIds = append(pt.ChunkIds, chunk.Id)
	}
}

func (t *Trace) SufficiencyJudged(pass int, verdict core.Verdict) {
	t.passAt(pass).Verdict = verdict
}

func (t *Trace) ContextSynthesized(synthesis core.SynthesizedContext) {
	t.Synthesis = synthesis
}

func (t *Trace) AnswerGenerated(answer *core.Answer) {
	t.Answer = answer
}

func (t *Trace) passAt(pass int) *PassTrace {
	for len(t.Passes) <= pass {
		t.Passes = append(t.Passes, PassTrace{Pass: len(t.Passes)})
	}
	return &t.Passes[pass]
}
