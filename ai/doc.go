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


// Package ai provides abstractions for the AI services used in Reperit.
//
// Every model-backed decision point in the retrieval pipeline is a
// non-deterministic oracle, so each one is hidden behind a narrow interface
// with a single operation:
//
//   - Embedder: vector embeddings for semantic search
//   - QueryClassifier: research_question vs data_lookup labeling
//   - QueryExpander: dimension-based query variant generation
//   - SufficiencyJudge: is the accumulated evidence enough?
//   - ContextSynthesizer: cross-chunk logic-chain extraction
//   - AnswerGenerator: citation-constrained answer rendering
//   - AIProvider: aggregates the above for initialization and lifecycle
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without
//     external services
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert call counts.
package ai
