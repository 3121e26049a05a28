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
	"errors"
	"time"
)

// Config holds the tunables for one query's processing. It is passed
// explicitly into the retrieval entry point rather than read from ambient
// process state, so queries stay deterministic and independently testable.
type Config struct {
	// TopK is the number of results requested per search pass.
	// Default: 10
	TopK int

	// SimilarityThreshold is the minimum acceptable similarity score.
	// Results below it are dropped before merging.
	// Default: 0.45
	SimilarityThreshold float32

	// MaxChunksForAnswer caps the chunk set before synthesis to preserve
	// model reasoning quality. Lowest-scoring chunks are dropped first.
	// Default: 15
	MaxChunksForAnswer int

	// MaxIterations bounds the refinement loop.
	// Default: 3
	MaxIterations int

	// MaxConcurrentCalls bounds outstanding search calls during fan-out,
	// protecting the index and model backends.
	// Default: 10
	MaxConcurrentCalls int

	// Deadline is the optional overall time budget for the whole query.
	// On expiry the loop exits the refinement cycle and synthesizes with
	// whatever evidence has accumulated. Zero disables it.
	Deadline time.Duration
}

// DefaultConfig returns a Config with the standard retrieval settings.
func DefaultConfig() Config {
	return Config{
		TopK:                10,
		SimilarityThreshold: 0.45,
		MaxChunksForAnswer:  15,
		MaxIterations:       3,
		MaxConcurrentCalls:  10,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return errors.New("config: TopK must be at least 1")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return errors.New("config: SimilarityThreshold must be in [0, 1]")
	}
	if c.MaxChunksForAnswer < 1 {
		return errors.New("config: MaxChunksForAnswer must be at least 1")
	}
	if c.MaxIterations < 1 {
		return errors.New("config: MaxIterations must be at least 1")
	}
	if c.MaxConcurrentCalls < 1 {
		return errors.New("config: MaxConcurrentCalls must be at least 1")
	}
	if c.Deadline < 0 {
		return errors.New("config: Deadline cannot be negative")
	}
	return nil
}
