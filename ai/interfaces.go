package ai

import (
	"context"
	"time"

	"github.com/poiesic/reperit/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryClassifier labels a raw query as a research question or a data lookup.
// Implementations must be thread-safe for concurrent use.
type QueryClassifier interface {
	// ClassifyQuery returns the label for the raw query text.
	// A malformed or missing model response is an error; callers default
	// to QueryTypeResearchQuestion and continue.
	ClassifyQuery(ctx context.Context, query string) (core.QueryType, error)
}

// ExpansionRequest carries the inputs for one query-expansion round.
type ExpansionRequest struct {
	// Query is the verbatim user query.
	Query string

	// MissingAspect is set on refinement rounds to bias new dimensions
	// toward the gap the sufficiency judge identified. Empty on the first
	// round.
	MissingAspect string

	// UsedDimensions lists dimension names already issued for this query.
	// The expander must not regenerate any of them.
	UsedDimensions []string
}

// QueryExpander generates semantically diverse query variants.
// Each variant approaches the query from a model-invented dimension;
// there is no fixed dimension taxonomy.
// Implementations must be thread-safe for concurrent use.
type QueryExpander interface {
	// ExpandQuery returns 4-6 query variants for the request, each with a
	// dimension name and a one-line reasoning. Returning an empty slice is
	// not an error; callers degrade to searching the original query alone.
	ExpandQuery(ctx context.Context, req ExpansionRequest) ([]core.ExpandedQuery, error)
}

// ChunkSummary is the per-chunk view given to the sufficiency judge.
// Text carries the full chunk text; implementations truncate it to their
// configured snippet length to bound the cost of evaluation calls.
type ChunkSummary struct {
	Id     core.ID
	Score  float32
	Source string
	Date   time.Time
	Text   string
}

// SufficiencyJudge decides whether the accumulated evidence answers a query.
// Implementations must be thread-safe for concurrent use.
type SufficiencyJudge interface {
	// JudgeSufficiency returns a verdict over the summarized evidence set.
	// On an insufficient verdict MissingAspect may name the gap to search
	// for next. A judge failure is treated as insufficient by callers;
	// the iteration cap is the real termination guarantee.
	JudgeSufficiency(ctx context.Context, query string, evidence []ChunkSummary) (core.Verdict, error)
}

// ContextSynthesizer turns a chunk set into structured, cross-linked
// evidence: shared entity and metric mentions are matched across chunk
// boundaries and ordered into logic chains (premises before conclusions).
// Implementations must be thread-safe for concurrent use.
type ContextSynthesizer interface {
	// SynthesizeContext builds a SynthesizedContext from the final chunk
	// set. Every supporting id in the result refers to a chunk in the
	// input. When cross-linking is ambiguous the synthesizer degrades to
	// fewer, shorter chains rather than failing.
	SynthesizeContext(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error)
}

// GenerationRequest carries the inputs for final answer generation.
type GenerationRequest struct {
	Query   string
	Type    core.QueryType
	Context core.SynthesizedContext

	// Chunks is the synthesizer's input set. Citations may only reference
	// these ids; implementations draw citations from this list rather than
	// trusting model output.
	Chunks []*core.Chunk
}

// GeneratedAnswer is the raw output of answer generation before the loop
// assembles the final core.Answer.
type GeneratedAnswer struct {
	Text      string
	Citations []core.ID
}

// AnswerGenerator produces the final cited answer text.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// GenerateAnswer renders the answer for the request. Data lookups get
	// a terse, numeric template with one or two citations; research
	// questions get an explanatory narrative citing multiple chunks.
	// Failure here is fatal and surfaced to the caller.
	GenerateAnswer(ctx context.Context, req GenerationRequest) (GeneratedAnswer, error)
}

// AIProvider aggregates the model-backed capabilities for convenient
// initialization and lifecycle management. Each decision point gets its own
// narrow interface so deterministic stand-ins can replace any of them in
// tests.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Classifier returns the query classification service.
	Classifier() QueryClassifier

	// Expander returns the query expansion service.
	Expander() QueryExpander

	// Judge returns the evidence sufficiency service.
	Judge() SufficiencyJudge

	// Synthesizer returns the context synthesis service.
	Synthesizer() ContextSynthesizer

	// Generator returns the answer generation service.
	Generator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
