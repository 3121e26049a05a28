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

package search

import (
	"slices"

	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
)

// MergeMatch folds one search match into the accumulated chunk set. A
// chunk seen again keeps its highest score and gains the new dimension
// in its provenance list.
func MergeMatch(acc map[core.ID]*core.Chunk, match index.Match, dimension string) {
	existing, ok := acc[match.Id]
	if !ok {
		acc[match.Id] = &core.Chunk{
			Id:         match.Id,
			Text:       match.Text,
			Score:      match.Score,
			Metadata:   match.Metadata,
			Provenance: []string{dimension},
		}
		return
	}

	if match.Score > existing.Score {
		existing.Score = match.Score
	}
	if !slices.Contains(existing.Provenance, dimension) {
		existing.Provenance = append(existing.Provenance, dimension)
	}
}

// MergeChunks folds already-merged chunks into an accumulated set,
// keeping the max score per id and unioning provenance. Used by the
// retrieval loop to accumulate across passes.
func MergeChunks(acc map[core.ID]*core.Chunk, chunks []*core.Chunk) {
	for _, chunk := range chunks {
		existing, ok := acc[chunk.Id]
		if !ok {
			acc[chunk.Id] = chunk
			continue
		}
		if chunk.Score > existing.Score {
			existing.Score = chunk.Score
		}
		for _, dim := range chunk.Provenance {
			if !slices.Contains(existing.Provenance, dim) {
				existing.Provenance = append(existing.Provenance, dim)
			}
		}
	}
}

// Ranked returns the accumulated chunks ordered by descending score,
// with ties broken by id so ordering is deterministic.
func Ranked(acc map[core.ID]*core.Chunk) []*core.Chunk {
	chunks := make([]*core.Chunk, 0, len(acc))
	for _, chunk := range acc {
		chunks = append(chunks, chunk)
	}
	slices.SortFunc(chunks, func(a, b *core.Chunk) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return chunks
}
