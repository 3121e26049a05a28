package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/core"
	"github.com/tmc/langchaingo/llms"
)

// Expander implements ai.QueryExpander using OpenAI-compatible chat APIs.
type Expander struct {
	client llms.Model
	logger *slog.Logger
}

// newExpander is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExpander(config *ai.Config) (*Expander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ChatHost, config.FastModel)
	if err != nil {
		return nil, err
	}

	return &Expander{
		client: client,
		logger: slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewExpander creates a new query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newExpander(config)
}

// ExpandQuery generates dimension-based query variants. On refinement
// rounds the prompt carries the missing aspect and the used-dimension
// history; variants that still reuse a prior dimension are dropped.
func (e *Expander) ExpandQuery(ctx context.Context, req ai.ExpansionRequest) ([]core.ExpandedQuery, error) {
	refinement := ""
	if req.MissingAspect != "" || len(req.UsedDimensions) > 0 {
		used := strings.Join(req.UsedDimensions, ", ")
		if used == "" {
			used = "(none)"
		}
		aspect := req.MissingAspect
		if aspect == "" {
			aspect = "aspects of the question not yet covered"
		}
		refinement = fmt.Sprintf(refinementSectionTemplate, aspect, used)
	}

	prompt := fmt.Sprintf(queryExpansionPromptTemplate, req.Query, refinement)

	response, err := completeText(ctx, e.client, prompt, llms.WithTemperature(0.3), llms.WithMaxTokens(1500))
	if err != nil {
		e.logger.Error("expansion call failed", "err", err)
		return nil, err
	}

	e.logger.Debug("expansion response", "response", response)

	expansions := parseExpansions(response)
	expansions = dropUsedDimensions(expansions, req.UsedDimensions)

	e.logger.Debug("parsed expansions", "count", len(expansions))
	return expansions, nil
}

// parseExpansions parses DIMENSION/REASONING/QUERY line triples. Models
// decorate the labels with markdown ("**DIMENSION:**", backticks), so
// matching is substring-based and values are stripped of formatting.
func parseExpansions(response string) []core.ExpandedQuery {
	var expansions []core.ExpandedQuery
	var dimension, reasoning string

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "DIMENSION:"):
			dimension = labelValue(line)
		case strings.Contains(upper, "REASONING:"):
			reasoning = labelValue(line)
		case strings.Contains(upper, "QUERY:"):
			text := labelValue(line)
			if text == "" {
				continue
			}
			expansions = append(expansions, core.ExpandedQuery{
				Dimension: dimension,
				Reasoning: reasoning,
				Text:      text,
			})
			dimension = ""
			reasoning = ""
		}
	}

	return expansions
}

// labelValue extracts the value after the first colon, stripping markdown
// emphasis and backticks.
func labelValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "`")
	value = strings.Trim(value, "*")
	return strings.TrimSpace(value)
}

// dropUsedDimensions filters out variants whose dimension name was already
// issued in this query's history, and the reserved original name.
func dropUsedDimensions(expansions []core.ExpandedQuery, used []string) []core.ExpandedQuery {
	seen := make(map[string]bool, len(used)+1)
	seen[core.OriginalDimension] = true
	for _, name := range used {
		seen[strings.ToLower(name)] = true
	}

	kept := expansions[:0]
	for _, exp := range expansions {
		if seen[strings.ToLower(exp.Dimension)] {
			continue
		}
		seen[strings.ToLower(exp.Dimension)] = true
		kept = append(kept, exp)
	}
	return kept
}
