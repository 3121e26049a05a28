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

// Classifier implements ai.QueryClassifier using OpenAI-compatible chat APIs.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// newClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ChatHost, config.FastModel)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a new query classifier using the provided configuration.
//
// Returns ai.QueryClassifier interface to enforce abstraction.
func NewClassifier(config *ai.Config) (ai.QueryClassifier, error) {
	return newClassifier(config)
}

// ClassifyQuery labels a query as research_question or data_lookup.
// The model is asked for a bare label; any response mentioning data_lookup
// maps to QueryTypeDataLookup, everything else to QueryTypeResearchQuestion.
func (c *Classifier) ClassifyQuery(ctx context.Context, query string) (core.QueryType, error) {
	prompt := fmt.Sprintf(queryTypePromptTemplate, query)

	response, err := completeText(ctx, c.client, prompt, llms.WithTemperature(0.0), llms.WithMaxTokens(50))
	if err != nil {
		c.logger.Error("classification call failed", "err", err)
		return core.QueryTypeResearchQuestion, err
	}

	c.logger.Debug("classification response", "response", response)

	if strings.Contains(strings.ToLower(response), "data_lookup") {
		return core.QueryTypeDataLookup, nil
	}
	return core.QueryTypeResearchQuestion, nil
}
