// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/search"
)

const noEvidenceText = "No indexed evidence addresses this question. " +
	"Try rephrasing, or index notes covering the topic first."

// Loop runs the retrieval cycle for one query at a time: classify,
// expand, search, evaluate, and iterate until the evidence is judged
// sufficient or the iteration cap is reached, then synthesize and
// generate a cited answer.
type Loop struct {
	provider ai.AIProvider
	fanout   *search.Fanout
	monitor  Monitor
	logger   *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithMonitor attaches a progress monitor.
// Default is NoopMonitor.
func WithMonitor(monitor Monitor) Option {
	return func(l *Loop) error {
		if monitor == nil {
			monitor = NoopMonitor
		}
		l.monitor = monitor
		return nil
	}
}

// NewLoop creates a retrieval loop over the given provider and fanout.
func NewLoop(provider ai.AIProvider, fanout *search.Fanout, opts ...Option) (*Loop, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if fanout == nil {
		return nil, ErrFanoutRequired
	}

	l := &Loop{
		provider: provider,
		fanout:   fanout,
		monitor:  NoopMonitor,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Result is the outcome of one AnswerQuery run. Chunks is the final
// evidence set the answer was generated from, ranked by score and capped
// at MaxChunksForAnswer; the answer's citations are always a subset of
// it. Per-pass untrimmed chunk sets are available through a Monitor.
type Result struct {
	Answer *core.Answer
	Chunks []*core.Chunk
}

// AnswerQuery runs the full retrieval cycle for rawQuery. On an empty
// evidence set it returns a degraded Answer alongside core.ErrNoEvidence
// so callers can still print something. An answer generation failure
// wraps core.ErrGeneration.
func (l *Loop) AnswerQuery(ctx context.Context, rawQuery string, cfg core.Config) (*Result, error) {
	if err := core.ValidateQueryText(rawQuery); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The deadline bounds retrieval only. Synthesis and generation run on
	// the caller's context so an expired deadline degrades to answering
	// from accumulated evidence instead of failing the final model calls.
	gatherCtx := ctx
	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		gatherCtx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	queryType := l.classify(gatherCtx, rawQuery)
	l.monitor.QueryClassified(rawQuery, queryType)

	state := newState(rawQuery, queryType)
	if err := l.gather(gatherCtx, state, cfg); err != nil {
		return nil, err
	}

	considered := state.Ranked()
	if len(considered) == 0 {
		answer := &core.Answer{
			Text:           noEvidenceText,
			Classification: queryType,
			Iterations:     state.Passes,
		}
		l.monitor.AnswerGenerated(answer)
		return &Result{Answer: answer}, core.ErrNoEvidence
	}

	final := considered
	if len(final) > cfg.MaxChunksForAnswer {
		final = final[:cfg.MaxChunksForAnswer]
	}

	synthesis, err := l.provider.Synthesizer().SynthesizeContext(ctx, rawQuery, final)
	if err != nil {
		l.logger.Warn("context synthesis failed, answering from raw chunks", "err", err)
		synthesis = core.SynthesizedContext{}
	}
	l.monitor.ContextSynthesized(synthesis)

	generated, err := l.provider.Generator().GenerateAnswer(ctx, ai.GenerationRequest{
		Query:   rawQuery,
		Type:    queryType,
		Context: synthesis,
		Chunks:  final,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrGeneration, err)
	}

	answer := &core.Answer{
		Text:           generated.Text,
		Citations:      restrictCitations(generated.Citations, final),
		Classification: queryType,
		Iterations:     state.Passes,
	}
	l.monitor.AnswerGenerated(answer)

	l.logger.Info("query answered",
		"type", queryType.String(),
		"passes", state.Passes,
		"chunks", len(final),
		"citations", len(answer.Citations))

	return &Result{Answer: answer, Chunks: final}, nil
}

// classify labels the query, falling back to research question on any
// classifier failure.
func (l *Loop) classify(ctx context.Context, rawQuery string) core.QueryType {
	queryType, err := l.provider.Classifier().ClassifyQuery(ctx, rawQuery)
	if err != nil {
		l.logger.Warn("classification failed, defaulting to research question", "err", err)
		return core.QueryTypeResearchQuestion
	}
	return queryType
}

// gather runs up to cfg.MaxIterations expand/search/evaluate passes,
// accumulating chunks in state. It returns an error only when the first
// pass retrieves nothing and fails outright.
func (l *Loop) gather(ctx context.Context, state *State, cfg core.Config) error {
	missingAspect := ""

	for pass := 0; pass < cfg.MaxIterations; pass++ {
		if ctx.Err() != nil {
			l.logger.Warn("deadline reached, stopping retrieval", "pass", pass)
			return nil
		}

		variants := l.expand(ctx, state, pass, missingAspect)
		if len(variants) == 0 {
			// Refinement produced nothing new to search.
			return nil
		}

		chunks, err := l.fanout.Run(ctx, variants, cfg)
		if err != nil {
			if state.Size() == 0 {
				return err
			}
			l.logger.Warn("search pass failed, answering from accumulated evidence",
				"pass", pass, "err", err)
			return nil
		}
		state.Merge(chunks)
		state.Passes = pass + 1
		l.monitor.PassSearched(pass, chunks)

		// At exactly the cap the evaluator still runs: a refinement pass
		// can displace low scorers in the final top-N.
		if state.Size() > cfg.MaxChunksForAnswer {
			l.logger.Debug("chunk budget exceeded, moving to synthesis",
				"pass", pass, "chunks", state.Size())
			return nil
		}

		verdict := l.judge(ctx, state, cfg)
		state.AddVerdict(verdict)
		l.monitor.SufficiencyJudged(pass, verdict)
		if verdict.Sufficient {
			return nil
		}
		missingAspect = verdict.MissingAspect
	}

	return nil
}

// expand builds this pass's search variants. The verbatim query is
// searched on the first pass only; later passes search new expansions
// aimed at the judged gap.
func (l *Loop) expand(ctx context.Context, state *State, pass int, missingAspect string) []search.Variant {
	var variants []search.Variant
	if pass == 0 {
		variants = append(variants, search.Variant{
			Dimension: core.OriginalDimension,
			Text:      state.Query.Text,
		})
	}

	expansions, err := l.provider.Expander().ExpandQuery(ctx, ai.ExpansionRequest{
		Query:          state.Query.Text,
		MissingAspect:  missingAspect,
		UsedDimensions: state.UsedDimensions(),
	})
	if err != nil {
		l.logger.Warn("query expansion failed", "pass", pass, "err", err)
	}

	state.AddExpansions(expansions)
	l.monitor.QueriesExpanded(pass, expansions)

	for _, exp := range expansions {
		variants = append(variants, search.Variant{Dimension: exp.Dimension, Text: exp.Text})
	}
	return variants
}

// judge evaluates the accumulated evidence. A judge failure counts as
// an insufficient verdict; the pass cap bounds the loop either way.
func (l *Loop) judge(ctx context.Context, state *State, cfg core.Config) core.Verdict {
	ranked := state.Ranked()
	if len(ranked) > cfg.MaxChunksForAnswer {
		ranked = ranked[:cfg.MaxChunksForAnswer]
	}

	summaries := make([]ai.ChunkSummary, 0, len(ranked))
	for _, chunk := range ranked {
		summaries = append(summaries, ai.ChunkSummary{
			Id:     chunk.Id,
			Score:  chunk.Score,
			Source: chunk.Metadata.Source,
			Date:   chunk.Metadata.Date,
			Text:   chunk.Text,
		})
	}

	verdict, err := l.provider.Judge().JudgeSufficiency(ctx, state.Query.Text, summaries)
	if err != nil {
		l.logger.Warn("sufficiency judgment failed, treating as insufficient", "err", err)
		return core.Verdict{Sufficient: false}
	}
	return verdict
}

// restrictCitations drops any citation not in the final chunk set and
// deduplicates while preserving order.
func restrictCitations(citations []core.ID, chunks []*core.Chunk) []core.ID {
	allowed := make(map[core.ID]bool, len(chunks))
	for _, chunk := range chunks {
		allowed[chunk.Id] = true
	}

	var kept []core.ID
	for _, id := range citations {
		if allowed[id] && !slices.Contains(kept, id) {
			kept = append(kept, id)
		}
	}
	return kept
}

