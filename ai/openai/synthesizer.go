package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
	"github.com/tmc/langchaingo/llms"
)

// Synthesizer implements ai.ContextSynthesizer using OpenAI-compatible chat APIs.
type Synthesizer struct {
	client llms.Model
	logger *slog.Logger
}

// chain and synthesis are internal types used for JSON unmarshaling.
// They match the structure expected by the LLM.
type chain struct {
	Premise    string `json:"premise"`
	Conclusion string `json:"conclusion"`
	Mechanism  string `json:"mechanism"`
	Sources    []int  `json:"sources"`
}

type synthesis struct {
	WhatHappened   string  `json:"what_happened"`
	Interpretation string  `json:"interpretation"`
	UsedData       string  `json:"used_data"`
	LogicChains    []chain `json:"logic_chains"`
}

// newSynthesizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSynthesizer(config *ai.Config) (*Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ChatHost, config.DeepModel)
	if err != nil {
		return nil, err
	}

	return &Synthesizer{
		client: client,
		logger: slog.Default().With("component", "openai-synthesizer"),
	}, nil
}

// NewSynthesizer creates a new context synthesizer using the provided configuration.
//
// Returns ai.ContextSynthesizer interface to enforce abstraction.
func NewSynthesizer(config *ai.Config) (ai.ContextSynthesizer, error) {
	return newSynthesizer(config)
}

// SynthesizeContext extracts cross-chunk logic chains from the final chunk
// set. Source numbers in the model output are mapped back to chunk ids;
// out-of-range references are dropped. A persistent parse failure degrades
// to a flat partial context built from the top chunks rather than failing.
func (s *Synthesizer) SynthesizeContext(ctx context.Context, query string, chunks []*core.Chunk) (core.SynthesizedContext, error) {
	if len(chunks) == 0 {
		return core.SynthesizedContext{}, nil
	}

	prompt := fmt.Sprintf(synthesisPromptTemplate, query, formatNumberedChunks(chunks), synthesisResponseSchema)

	// Try up to 3 times in case of malformed JSON
	var result synthesis
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := completeText(ctx, s.client, prompt, llms.WithTemperature(0.3), llms.WithJSONMode(), llms.WithMaxTokens(2000))
		if err != nil {
			s.logger.Error("synthesis call failed", "attempt", attempt+1, "err", err)
			lastErr = err
			continue
		}

		responseText := repairJSON(stripFences(response))
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing synthesis response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("synthesis degraded to partial context", "err", lastErr)
		return partialContext(chunks), nil
	}

	synthesized := core.SynthesizedContext{
		WhatHappened:   strings.TrimSpace(result.WhatHappened),
		Interpretation: strings.TrimSpace(result.Interpretation),
		UsedData:       strings.TrimSpace(result.UsedData),
	}

	for _, c := range result.LogicChains {
		supporting := resolveSources(c.Sources, chunks)
		if c.Premise == "" || c.Conclusion == "" || len(supporting) == 0 {
			continue
		}
		synthesized.Chains = append(synthesized.Chains, core.LogicChain{
			Premise:    strings.TrimSpace(c.Premise),
			Conclusion: strings.TrimSpace(c.Conclusion),
			Mechanism:  strings.TrimSpace(c.Mechanism),
			Supporting: supporting,
		})
	}

	s.logger.Debug("synthesized context",
		"chains", len(synthesized.Chains),
		"chunks", len(chunks))

	return synthesized, nil
}

// resolveSources maps 1-based source numbers to chunk ids, dropping
// anything out of range. Citations can only name chunks that exist.
func resolveSources(sources []int, chunks []*core.Chunk) []core.ID {
	var ids []core.ID
	seen := make(map[core.ID]bool)
	for _, n := range sources {
		if n < 1 || n > len(chunks) {
			continue
		}
		id := chunks[n-1].Id
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// formatNumberedChunks renders the chunk set as numbered sources for
// synthesis and generation prompts.
func formatNumberedChunks(chunks []*core.Chunk) string {
	var sb strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "[Source %d: %s] (score: %.2f", i+1, sourceName(chunk), chunk.Score)
		if !chunk.Metadata.Date.IsZero() {
			fmt.Fprintf(&sb, ", date: %s", chunk.Metadata.Date.Format("2006-01-02"))
		}
		if chunk.Metadata.Category != "" {
			fmt.Fprintf(&sb, ", category: %s", chunk.Metadata.Category)
		}
		sb.WriteString(")\n")
		sb.WriteString(chunk.Text)
		sb.WriteString("\n---\n")
	}
	return sb.String()
}

// sourceName prefers the named research source and falls back to the
// distribution channel.
func sourceName(chunk *core.Chunk) string {
	if chunk.Metadata.Source != "" {
		return chunk.Metadata.Source
	}
	if chunk.Metadata.Channel != "" {
		return chunk.Metadata.Channel
	}
	return "unknown"
}

// partialContext builds a flat best-effort context when chain extraction
// is unavailable: highest-scoring chunk texts, no cross-links.
func partialContext(chunks []*core.Chunk) core.SynthesizedContext {
	const maxParts = 3
	parts := make([]string, 0, maxParts)
	for i, chunk := range chunks {
		if i >= maxParts {
			break
		}
		parts = append(parts, truncate(chunk.Text, 400))
	}
	return core.SynthesizedContext{
		WhatHappened: strings.Join(parts, "\n---\n"),
	}
}
