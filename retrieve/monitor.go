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

package retrieve

import "github.com/poiesic/reperit/core"

// Monitor receives progress callbacks from the retrieval loop. Callbacks
// fire sequentially from the loop's goroutine.
type Monitor interface {
	// QueryClassified fires once the query type is decided.
	QueryClassified(query string, queryType core.QueryType)

	// QueriesExpanded fires after each expansion round with the new
	// expansions only.
	QueriesExpanded(pass int, expansions []core.ExpandedQuery)

	// PassSearched fires after each search pass with the merged chunks
	// that pass contributed.
	PassSearched(pass int, chunks []*core.Chunk)

	// SufficiencyJudged fires after each evaluation.
	SufficiencyJudged(pass int, verdict core.Verdict)

	// ContextSynthesized fires once synthesis completes.
	ContextSynthesized(synthesis core.SynthesizedContext)

	// AnswerGenerated fires with the final answer.
	AnswerGenerated(answer *core.Answer)
}

// NoopMonitor ignores every callback.
var NoopMonitor Monitor = noopMonitor{}

type noopMonitor struct{}

func (noopMonitor) QueryClassified(string, core.QueryType)        {}
func (noopMonitor) QueriesExpanded(int, []core.ExpandedQuery)     {}
func (noopMonitor) PassSearched(int, []*core.Chunk)               {}
func (noopMonitor) SufficiencyJudged(int, core.Verdict)           {}
func (noopMonitor) ContextSynthesized(core.SynthesizedContext)    {}
func (noopMonitor) AnswerGenerated(*core.Answer)                  {}
