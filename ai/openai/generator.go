package openai

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// citationPattern matches inline source references like [1] or [2, 5].
var citationPattern = regexp.MustCompile(`\[(\d+(?:\s*,\s*\d+)*)\]`)

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ChatHost, config.DeepModel)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer renders the final answer. The template depends on the
// query type; citations are parsed from inline [n] references and resolved
// against the request's chunk list, so the answer can only cite chunks the
// synthesizer saw.
func (g *Generator) GenerateAnswer(ctx context.Context, req ai.GenerationRequest) (ai.GeneratedAnswer, error) {
	template := researchAnswerPromptTemplate
	if req.Type == core.QueryTypeDataLookup {
		template = lookupAnswerPromptTemplate
	}

	prompt := fmt.Sprintf(template, req.Query,
		formatContext(req.Context, req.Chunks),
		formatNumberedChunks(req.Chunks))

	response, err := completeText(ctx, g.client, prompt, llms.WithTemperature(0.3), llms.WithMaxTokens(2000))
	if err != nil {
		g.logger.Error("generation call failed", "err", err)
		return ai.GeneratedAnswer{}, err
	}

	text := strings.TrimSpace(response)
	if text == "" {
		g.logger.Error("generation returned empty answer")
		return ai.GeneratedAnswer{}, errNoChoices
	}

	citations := parseCitations(text, req.Chunks)
	if req.Type == core.QueryTypeDataLookup && len(citations) > 2 {
		citations = citations[:2]
	}

	g.logger.Debug("generated answer", "length", len(text), "citations", len(citations))

	return ai.GeneratedAnswer{
		Text:      text,
		Citations: citations,
	}, nil
}

// parseCitations collects every inline [n] reference that resolves to a
// chunk in the request, in first-mention order.
func parseCitations(text string, chunks []*core.Chunk) []core.ID {
	var ids []core.ID
	seen := make(map[core.ID]bool)

	for _, match := range citationPattern.FindAllStringSubmatch(text, -1) {
		for _, field := range strings.Split(match[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || n < 1 || n > len(chunks) {
				continue
			}
			id := chunks[n-1].Id
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// formatContext renders the synthesized context for the answer prompt,
// with chain supports shown as source numbers.
func formatContext(synth core.SynthesizedContext, chunks []*core.Chunk) string {
	numberByID := make(map[core.ID]int, len(chunks))
	for i, chunk := range chunks {
		numberByID[chunk.Id] = i + 1
	}

	var sb strings.Builder
	if synth.WhatHappened != "" {
		fmt.Fprintf(&sb, "What happened: %s\n", synth.WhatHappened)
	}
	if synth.Interpretation != "" {
		fmt.Fprintf(&sb, "Interpretation: %s\n", synth.Interpretation)
	}
	if synth.UsedData != "" {
		fmt.Fprintf(&sb, "Data: %s\n", synth.UsedData)
	}
	if len(synth.Chains) > 0 {
		sb.WriteString("Logic chains:\n")
		for _, c := range synth.Chains {
			refs := make([]string, 0, len(c.Supporting))
			for _, id := range c.Supporting {
				if n, ok := numberByID[id]; ok {
					refs = append(refs, strconv.Itoa(n))
				}
			}
			fmt.Fprintf(&sb, "  - %s -> %s", c.Premise, c.Conclusion)
			if c.Mechanism != "" {
				fmt.Fprintf(&sb, ": %s", c.Mechanism)
			}
			if len(refs) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(refs, ","))
			}
			sb.WriteString("\n")
		}
	}
	if sb.Len() == 0 {
		return "(no synthesized context available)"
	}
	return sb.String()
}
