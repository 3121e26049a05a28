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


package mock

import "github.com/poiesic/reperit/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock implementations of every capability.
type MockProvider struct {
	embedder    *MockEmbedder
	classifier  *MockClassifier
	expander    *MockExpander
	judge       *MockJudge
	synthesizer *MockSynthesizer
	generator   *MockGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production
// constructors. Use the GetMock* accessors for concrete types in test
// assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:    NewMockEmbedder(),
		classifier:  NewMockClassifier(),
		expander:    NewMockExpander(),
		judge:       NewMockJudge(),
		synthesizer: NewMockSynthesizer(),
		generator:   NewMockGenerator(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Classifier returns the mock classifier.
func (p *MockProvider) Classifier() ai.QueryClassifier {
	return p.classifier
}

// Expander returns the mock expander.
func (p *MockProvider) Expander() ai.QueryExpander {
	return p.expander
}

// Judge returns the mock judge.
func (p *MockProvider) Judge() ai.SufficiencyJudge {
	return p.judge
}

// Synthesizer returns the mock synthesizer.
func (p *MockProvider) Synthesizer() ai.ContextSynthesizer {
	return p.synthesizer
}

// Generator returns the mock generator.
func (p *MockProvider) Generator() ai.AnswerGenerator {
	return p.generator
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}

// GetMockExpander returns the underlying mock expander for test assertions.
func (p *MockProvider) GetMockExpander() *MockExpander {
	return p.expander
}

// GetMockJudge returns the underlying mock judge for test assertions.
func (p *MockProvider) GetMockJudge() *MockJudge {
	return p.judge
}

// GetMockSynthesizer returns the underlying mock synthesizer for test assertions.
func (p *MockProvider) GetMockSynthesizer() *MockSynthesizer {
	return p.synthesizer
}

// GetMockGenerator returns the underlying mock generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
