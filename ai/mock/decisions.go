package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
)

// MockClassifier is a test double for ai.QueryClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyQueryFunc is called by ClassifyQuery if set.
	// If nil, uses a simple keyword heuristic.
	ClassifyQueryFunc func(ctx context.Context, query string) (core.QueryType, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// ClassifyQuery labels queries containing lookup-flavored words as data
// lookups and everything else as research questions.
func (m *MockClassifier) ClassifyQuery(ctx context.Context, query string) (core.QueryType, error) {
	m.callCount++

	if m.ClassifyQueryFunc != nil {
		return m.ClassifyQueryFunc(ctx, query)
	}

	lower := strings.ToLower(query)
	for _, word := range []string{"how much", "what is the value", "threshold", "exact"} {
		if strings.Contains(lower, word) {
			return core.QueryTypeDataLookup, nil
		}
	}
	return core.QueryTypeResearchQuestion, nil
}

// CallCount returns the number of times ClassifyQuery was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// MockExpander is a test double for ai.QueryExpander.
// It allows custom behavior injection via function fields.
type MockExpander struct {
	// ExpandQueryFunc is called by ExpandQuery if set.
	// If nil, generates fixed mechanical variants.
	ExpandQueryFunc func(ctx context.Context, req ai.ExpansionRequest) ([]core.ExpandedQuery, error)

	callCount int
}

// NewMockExpander creates a mock expander with default behavior.
func NewMockExpander() *MockExpander {
	return &MockExpander{}
}

// ExpandQuery generates deterministic variants. Dimension names carry the
// round number so refinement rounds never collide with earlier ones.
func (m *MockExpander) ExpandQuery(ctx context.Context, req ai.ExpansionRequest) ([]core.ExpandedQuery, error) {
	m.callCount++

	if m.ExpandQueryFunc != nil {
		return m.ExpandQueryFunc(ctx, req)
	}

	round := m.callCount
	variants := []core.ExpandedQuery{
		{
			Dimension: fmt.Sprintf("direct-%d", round),
			Reasoning: "closest rephrasing of the question",
			Text:      req.Query + " direct",
		},
		{
			Dimension: fmt.Sprintf("causes-%d", round),
			Reasoning: "what produces this condition",
			Text:      "causes of " + req.Query,
		},
	}
	if req.MissingAspect != "" {
		variants = append(variants, core.ExpandedQuery{
			Dimension: fmt.Sprintf("gap-%d", round),
			Reasoning: "targets the identified gap",
			Text:      req.Query + " " + req.MissingAspect,
		})
	}
	return variants, nil
}

// CallCount returns the number of times ExpandQuery was called.
func (m *MockExpander) CallCount() int {
	return m.callCount
}

// MockJudge is a test double for ai.SufficiencyJudge.
// It allows custom behavior injection via function fields.
type MockJudge struct {
	// JudgeSufficiencyFunc is called by JudgeSufficiency if set.
	// If nil, evidence with at least 3 chunks is sufficient.
	JudgeSufficiencyFunc func(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error)

	callCount int
}

// NewMockJudge creates a mock judge with default behavior.
func NewMockJudge() *MockJudge {
	return &MockJudge{}
}

// JudgeSufficiency reports sufficient once three or more chunks have
// accumulated, mirroring the minimum-evidence heuristic.
func (m *MockJudge) JudgeSufficiency(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
	m.callCount++

	if m.JudgeSufficiencyFunc != nil {
		return m.JudgeSufficiencyFunc(ctx, query, evidence)
	}

	if len(evidence) >= 3 {
		return core.Verdict{Sufficient: true}, nil
	}
	return core.Verdict{Sufficient: false, MissingAspect: "more supporting evidence"}, nil
}

// CallCount returns the number of times JudgeSufficiency was called.
func (m *MockJudge) CallCount() int {
	return m.callCount
}

// MockSynthesizer is a test double for ai.ContextSynthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// SynthesizeContextFunc is called by SynthesizeContext if set.
	// If nil, builds one chain per adjacent chunk pair.
	SynthesizeContextFunc func(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error)

	callCount int
}

// NewMockSynthesizer creates a mock synthesizer with default behavior.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// SynthesizeContext builds a deterministic context: the top chunk text as
// what_happened and a chain linking each adjacent chunk pair.
func (m *MockSynthesizer) SynthesizeContext(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error) {
	m.callCount++

	if m.SynthesizeContextFunc != nil {
		return m.SynthesizeContextFunc(ctx, query, chunks)
	}

	if len(chunks) == 0 {
		return core.SynthesizedContext{}, nil
	}

	synth := core.SynthesizedContext{
		WhatHappened:   chunks[0].Text,
		Interpretation: "mock interpretation of " + query,
	}
	for i := 0; i+1 < len(chunks); i++ {
		synth.Chains = append(synth.Chains, core.LogicChain{
			Premise:    chunks[i].Text,
			Conclusion: chunks[i+1].Text,
			Supporting: []core.ID{chunks[i].Id, chunks[i+1].Id},
		})
	}
	return synth, nil
}

// CallCount returns the number of times SynthesizeContext was called.
func (m *MockSynthesizer) CallCount() int {
	return m.callCount
}

// MockGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, produces a fixed answer citing the top chunks.
	GenerateAnswerFunc func(ctx context.Context, req ai.GenerationRequest) (ai.GeneratedAnswer, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer produces a deterministic answer. Data lookups cite the
// top chunk; research questions cite up to three.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, req ai.GenerationRequest) (ai.GeneratedAnswer, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, req)
	}

	maxCitations := 3
	if req.Type == core.QueryTypeDataLookup {
		maxCitations = 1
	}

	var citations []core.ID
	for i, chunk := range req.Chunks {
		if i >= maxCitations {
			break
		}
		citations = append(citations, chunk.Id)
	}

	return ai.GeneratedAnswer{
		Text:      "mock answer for: " + req.Query,
		Citations: citations,
	}, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}
