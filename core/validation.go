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


package core

import (
	"fmt"
	"strings"
)

// ValidateQueryText validates raw query text before processing.
func ValidateQueryText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateChunk validates a retrieved Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Score must be in [0, 1]
//
// NOT validated:
//   - Metadata fields (sources vary in completeness)
//   - Provenance (filled in by the fan-out merge)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.Score < 0 || chunk.Score > 1 {
		return fmt.Errorf("%w: %w: value %f", ErrInvalidChunk, ErrInvalidScore, chunk.Score)
	}

	return nil
}
