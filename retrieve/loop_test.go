package retrieve

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/reperit/ai"
	aimock "github.com/poiesic/reperit/ai/mock"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
	indexmock "github.com/poiesic/reperit/index/mock"
	"github.com/poiesic/reperit/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHarness wires a loop over mock services, with every query variant
// returning one distinct chunk above the similarity threshold.
type testHarness struct {
	provider *aimock.MockProvider
	vs       *indexmock.MockVectorSearch
	loop     *Loop
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	provider := aimock.NewMockProvider().(*aimock.MockProvider)
	vs := indexmock.NewMockVectorSearch()
	vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return []index.Match{
			{
				Id:    core.IDFromContent(queryText),
				Score: 0.8,
				Text:  "evidence for " + queryText,
			},
		}, nil
	}

	fanout, err := search.NewFanout(vs)
	require.NoError(t, err)

	loop, err := NewLoop(provider, fanout)
	require.NoError(t, err)

	return &testHarness{provider: provider, vs: vs, loop: loop}
}

func TestNewLoop(t *testing.T) {
	provider := aimock.NewMockProvider()
	fanout, err := search.NewFanout(indexmock.NewMockVectorSearch())
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		loop, err := NewLoop(provider, fanout)
		require.NoError(t, err)
		assert.NotNil(t, loop)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewLoop(nil, fanout)
		assert.Equal(t, ErrProviderRequired, err)
	})

	t.Run("nil fanout", func(t *testing.T) {
		_, err := NewLoop(provider, nil)
		assert.Equal(t, ErrFanoutRequired, err)
	})
}

func TestAnswerQuery_SufficientFirstPass(t *testing.T) {
	h := newTestHarness(t)

	// Three variants on the first pass, one chunk each: the default judge
	// is satisfied at three chunks.
	result, err := h.loop.AnswerQuery(context.Background(),
		"why did regional bank deposits decline", core.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Answer.Iterations)
	assert.Equal(t, core.QueryTypeResearchQuestion, result.Answer.Classification)
	assert.NotEmpty(t, result.Answer.Text)
	assert.Len(t, result.Chunks, 3)

	assert.Equal(t, 1, h.provider.GetMockJudge().CallCount())
	assert.Equal(t, 1, h.provider.GetMockSynthesizer().CallCount())
	assert.Equal(t, 1, h.provider.GetMockGenerator().CallCount())
}

func TestAnswerQuery_CitationsSubsetOfChunks(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	require.NoError(t, err)

	considered := make(map[core.ID]bool)
	for _, chunk := range result.Chunks {
		considered[chunk.Id] = true
	}

	assert.NotEmpty(t, result.Answer.Citations)
	for _, id := range result.Answer.Citations {
		assert.True(t, considered[id], "citation %d not in considered set", id)
	}
}

func TestAnswerQuery_AdversarialJudgeTerminates(t *testing.T) {
	h := newTestHarness(t)
	h.provider.GetMockJudge().JudgeSufficiencyFunc = func(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
		return core.Verdict{Sufficient: false, MissingAspect: "always more"}, nil
	}

	cfg := core.DefaultConfig()
	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.MaxIterations, result.Answer.Iterations)
	assert.Equal(t, cfg.MaxIterations, h.provider.GetMockJudge().CallCount())
	assert.Equal(t, cfg.MaxIterations, h.provider.GetMockExpander().CallCount())
	// Still produces an answer from what accumulated
	assert.NotEmpty(t, result.Answer.Text)
	assert.NotEmpty(t, result.Chunks)
}

func TestAnswerQuery_EmptyIndex(t *testing.T) {
	h := newTestHarness(t)
	h.vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return nil, nil
	}

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	require.ErrorIs(t, err, core.ErrNoEvidence)

	// Degraded answer is still populated so callers can print something
	require.NotNil(t, result)
	require.NotNil(t, result.Answer)
	assert.NotEmpty(t, result.Answer.Text)
	assert.Empty(t, result.Answer.Citations)
	assert.Empty(t, result.Chunks)
	assert.Equal(t, 0, h.provider.GetMockGenerator().CallCount())
}

func TestAnswerQuery_BelowThresholdIsNoEvidence(t *testing.T) {
	h := newTestHarness(t)
	h.vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return []index.Match{
			{Id: core.IDFromContent(queryText), Score: 0.2, Text: "weak match"},
		}, nil
	}

	_, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrNoEvidence)
}

func TestAnswerQuery_ChunkBudgetForcesSynthesis(t *testing.T) {
	h := newTestHarness(t)
	h.vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return []index.Match{
			{Id: core.IDFromContent(queryText + "-1"), Score: 0.9, Text: "a"},
			{Id: core.IDFromContent(queryText + "-2"), Score: 0.7, Text: "b"},
		}, nil
	}

	cfg := core.DefaultConfig()
	cfg.MaxChunksForAnswer = 3

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.NoError(t, err)

	// Budget exceeded on the first pass: no evaluation, straight to
	// synthesis over the top-N by score
	assert.Equal(t, 0, h.provider.GetMockJudge().CallCount())
	assert.Equal(t, 1, result.Answer.Iterations)
	assert.Len(t, result.Chunks, cfg.MaxChunksForAnswer)
	for _, chunk := range result.Chunks {
		assert.Equal(t, float32(0.9), chunk.Score)
	}
	assert.LessOrEqual(t, len(result.Answer.Citations), cfg.MaxChunksForAnswer)
}

func TestAnswerQuery_ExactBudgetStillEvaluated(t *testing.T) {
	h := newTestHarness(t)

	cfg := core.DefaultConfig()
	cfg.MaxChunksForAnswer = 3

	// Three variants, one chunk each: the set lands exactly on the cap, so
	// the evaluator still gets a say before synthesis.
	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, h.provider.GetMockJudge().CallCount())
	assert.Equal(t, 1, result.Answer.Iterations)
	assert.Len(t, result.Chunks, 3)
}

func TestAnswerQuery_ClassifierFailureDefaults(t *testing.T) {
	h := newTestHarness(t)
	h.provider.GetMockClassifier().ClassifyQueryFunc = func(ctx context.Context, query string) (core.QueryType, error) {
		return 0, assert.AnError
	}

	result, err := h.loop.AnswerQuery(context.Background(), "what is the exact threshold", core.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, core.QueryTypeResearchQuestion, result.Answer.Classification)
}

func TestAnswerQuery_DataLookupClassification(t *testing.T) {
	h := newTestHarness(t)

	result, err := h.loop.AnswerQuery(context.Background(),
		"what is the exact liquidity coverage threshold", core.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, core.QueryTypeDataLookup, result.Answer.Classification)
	// Data lookups cite sparingly
	assert.LessOrEqual(t, len(result.Answer.Citations), 2)
}

func TestAnswerQuery_JudgeFailureIsInsufficient(t *testing.T) {
	h := newTestHarness(t)
	h.provider.GetMockJudge().JudgeSufficiencyFunc = func(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
		return core.Verdict{}, assert.AnError
	}

	cfg := core.DefaultConfig()
	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.NoError(t, err)

	// Every pass judged insufficient; the iteration cap still terminates
	assert.Equal(t, cfg.MaxIterations, result.Answer.Iterations)
	assert.NotEmpty(t, result.Answer.Text)
}

func TestAnswerQuery_GenerationFailureIsFatal(t *testing.T) {
	h := newTestHarness(t)
	h.provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, req ai.GenerationRequest) (ai.GeneratedAnswer, error) {
		return ai.GeneratedAnswer{}, assert.AnError
	}

	_, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrGeneration)
}

func TestAnswerQuery_SynthesisFailureDegrades(t *testing.T) {
	h := newTestHarness(t)
	h.provider.GetMockSynthesizer().SynthesizeContextFunc = func(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error) {
		return core.SynthesizedContext{}, assert.AnError
	}

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer.Text)
}

func TestAnswerQuery_FirstPassSearchFailure(t *testing.T) {
	h := newTestHarness(t)
	h.vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return nil, assert.AnError
	}

	_, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrRetrieval)
}

func TestAnswerQuery_InvalidInputs(t *testing.T) {
	h := newTestHarness(t)

	t.Run("empty query", func(t *testing.T) {
		_, err := h.loop.AnswerQuery(context.Background(), "   ", core.DefaultConfig())
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := core.DefaultConfig()
		cfg.TopK = 0
		_, err := h.loop.AnswerQuery(context.Background(), "query", cfg)
		assert.Error(t, err)
	})
}

func TestAnswerQuery_DeadlineDegrades(t *testing.T) {
	h := newTestHarness(t)

	cfg := core.DefaultConfig()
	cfg.Deadline = time.Nanosecond

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.ErrorIs(t, err, core.ErrNoEvidence)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Answer.Text)
}

func TestAnswerQuery_DeadlineMidLoopStillAnswers(t *testing.T) {
	h := newTestHarness(t)

	// The judge outlives the deadline every time, so the loop hits expiry
	// between passes with evidence already accumulated.
	h.provider.GetMockJudge().JudgeSufficiencyFunc = func(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
		time.Sleep(150 * time.Millisecond)
		return core.Verdict{Sufficient: false, MissingAspect: "always more"}, nil
	}
	// The final model calls honor cancellation: they must receive a live
	// context even after the retrieval deadline has expired.
	h.provider.GetMockSynthesizer().SynthesizeContextFunc = func(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error) {
		if err := ctx.Err(); err != nil {
			return core.SynthesizedContext{}, err
		}
		return core.SynthesizedContext{WhatHappened: chunks[0].Text}, nil
	}
	h.provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, req ai.GenerationRequest) (ai.GeneratedAnswer, error) {
		if err := ctx.Err(); err != nil {
			return ai.GeneratedAnswer{}, err
		}
		return ai.GeneratedAnswer{Text: "answer from accumulated evidence", Citations: []core.ID{req.Chunks[0].Id}}, nil
	}

	cfg := core.DefaultConfig()
	cfg.Deadline = 50 * time.Millisecond

	result, err := h.loop.AnswerQuery(context.Background(), "deposit outflows", cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Answer.Iterations)
	assert.NotEmpty(t, result.Answer.Text)
	assert.Len(t, result.Chunks, 3)
	assert.Equal(t, 1, h.provider.GetMockGenerator().CallCount())
}

func TestAnswerQuery_MonitorSeesEveryStage(t *testing.T) {
	provider := aimock.NewMockProvider().(*aimock.MockProvider)
	vs := indexmock.NewMockVectorSearch()
	vs.SearchFunc = func(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
		return []index.Match{
			{Id: core.IDFromContent(queryText), Score: 0.8, Text: "evidence"},
		}, nil
	}

	fanout, err := search.NewFanout(vs)
	require.NoError(t, err)

	trace := NewTrace()
	loop, err := NewLoop(provider, fanout, WithMonitor(trace))
	require.NoError(t, err)

	result, err := loop.AnswerQuery(context.Background(), "deposit outflows", core.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "deposit outflows", trace.Query)
	assert.Equal(t, core.QueryTypeResearchQuestion, trace.Classification)
	require.Len(t, trace.Passes, 1)
	assert.NotEmpty(t, trace.Passes[0].Expansions)
	assert.Len(t, trace.Passes[0].ChunkIds, 3)
	assert.True(t, trace.Passes[0].Verdict.Sufficient)
	assert.False(t, trace.Synthesis.Empty())
	assert.Equal(t, result.Answer, trace.Answer)
}
