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


package openai

import (
	"log/slog"

	"github.com/poiesic/reperit/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages the embedder and the five model-backed decision services.
type Provider struct {
	config      *ai.Config
	embedder    *Embedder
	classifier  *Classifier
	expander    *Expander
	judge       *Judge
	synthesizer *Synthesizer
	generator   *Generator
	logger      *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(config)
	if err != nil {
		return nil, err
	}

	expander, err := newExpander(config)
	if err != nil {
		return nil, err
	}

	judge, err := newJudge(config)
	if err != nil {
		return nil, err
	}

	synthesizer, err := newSynthesizer(config)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:      config,
		embedder:    embedder,
		classifier:  classifier,
		expander:    expander,
		judge:       judge,
		synthesizer: synthesizer,
		generator:   generator,
		logger:      slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Classifier returns the query classification service.
func (p *Provider) Classifier() ai.QueryClassifier {
	return p.classifier
}

// Expander returns the query expansion service.
func (p *Provider) Expander() ai.QueryExpander {
	return p.expander
}

// Judge returns the evidence sufficiency service.
func (p *Provider) Judge() ai.SufficiencyJudge {
	return p.judge
}

// Synthesizer returns the context synthesis service.
func (p *Provider) Synthesizer() ai.ContextSynthesizer {
	return p.synthesizer
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.AnswerGenerator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
