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

// Judge implements ai.SufficiencyJudge using OpenAI-compatible chat APIs.
type Judge struct {
	client        llms.Model
	snippetLength int
	logger        *slog.Logger
}

// verdict is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type verdict struct {
	Sufficient    bool   `json:"sufficient"`
	MissingAspect string `json:"missing_aspect"`
	Reason        string `json:"reason"`
}

// newJudge is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newJudge(config *ai.Config) (*Judge, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ChatHost, config.FastModel)
	if err != nil {
		return nil, err
	}

	return &Judge{
		client:        client,
		snippetLength: config.SnippetLength,
		logger:        slog.Default().With("component", "openai-judge"),
	}, nil
}

// NewJudge creates a new sufficiency judge using the provided configuration.
//
// Returns ai.SufficiencyJudge interface to enforce abstraction.
func NewJudge(config *ai.Config) (ai.SufficiencyJudge, error) {
	return newJudge(config)
}

// JudgeSufficiency asks the model whether the summarized evidence answers
// the query. Chunk texts are truncated to the configured snippet length,
// bounding the call's cost.
func (j *Judge) JudgeSufficiency(ctx context.Context, query string, evidence []ai.ChunkSummary) (core.Verdict, error) {
	prompt := fmt.Sprintf(sufficiencyPromptTemplate, query, formatSummaries(evidence, j.snippetLength), sufficiencyResponseSchema)

	// Try up to 3 times in case of malformed JSON
	var result verdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := completeText(ctx, j.client, prompt, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			j.logger.Error("sufficiency call failed", "attempt", attempt+1, "err", err)
			return core.Verdict{}, err
		}

		responseText := repairJSON(stripFences(response))
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			j.logger.Warn("error parsing verdict response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		j.logger.Error("failed to parse verdict response after retries", "err", lastErr)
		return core.Verdict{}, lastErr
	}

	return core.Verdict{
		Sufficient:    result.Sufficient,
		MissingAspect: strings.TrimSpace(result.MissingAspect),
		Reason:        strings.TrimSpace(result.Reason),
	}, nil
}

// formatSummaries renders bounded per-chunk lines for the judge prompt,
// truncating each chunk's text to snippetLength runes.
func formatSummaries(evidence []ai.ChunkSummary, snippetLength int) string {
	if len(evidence) == 0 {
		return "(no evidence retrieved)"
	}

	var sb strings.Builder
	for _, s := range evidence {
		date := ""
		if !s.Date.IsZero() {
			date = s.Date.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "- [%d] (%.2f) %s %s: %s\n", s.Id, s.Score, s.Source, date, truncate(s.Text, snippetLength))
	}
	return sb.String()
}
