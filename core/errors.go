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

import "errors"

// Domain errors
var (
	// ErrRetrieval indicates that every search pass in one iteration failed.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrNoEvidence indicates that no chunk ever cleared the similarity
	// threshold, so there is nothing to synthesize an answer from.
	ErrNoEvidence = errors.New("no supporting evidence found")

	// ErrGeneration indicates answer generation failed. This is fatal.
	ErrGeneration = errors.New("answer generation failed")

	// ErrEmptyQuery indicates the query text is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates a chunk's Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidScore indicates a similarity score outside [0, 1].
	ErrInvalidScore = errors.New("similarity score must be in [0, 1]")
)
