// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks allow tests to run without external AI services and enable
// controlled, deterministic behavior via function-field injection:
//
//	provider := mock.NewMockProvider()
//	judge := provider.(*mock.MockProvider).GetMockJudge()
//	judge.JudgeSufficiencyFunc = func(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
//	    return core.Verdict{Sufficient: false, MissingAspect: "repo rates"}, nil
//	}
//
// Default behaviors are deterministic: the embedder hashes text into unit
// vectors, the expander emits round-numbered dimensions, the judge requires
// three chunks, and the synthesizer chains adjacent chunks.
package mock
