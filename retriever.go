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


package reperit

import (
	"context"
	"log/slog"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/ai/openai"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
	"github.com/poiesic/reperit/index/badger"
	"github.com/poiesic/reperit/retrieve"
	"github.com/poiesic/reperit/search"
)

type Retriever struct {
	backend   *badger.Backend
	chunkRepo index.ChunkRepository
	provider  ai.AIProvider
	loop      *retrieve.Loop
	config    core.Config
	logger    *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*retrieverOptions)

type retrieverOptions struct {
	aiConfig *ai.Config
	config   core.Config
	monitor  retrieve.Monitor
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(aiConfig *ai.Config) RetrieverOption {
	return func(o *retrieverOptions) {
		if aiConfig != nil {
			o.aiConfig = aiConfig
		}
	}
}

// WithConfig overrides the default retrieval parameters.
func WithConfig(config core.Config) RetrieverOption {
	return func(o *retrieverOptions) {
		o.config = config
	}
}

// WithMonitor attaches a progress monitor to the retrieval loop.
func WithMonitor(monitor retrieve.Monitor) RetrieverOption {
	return func(o *retrieverOptions) {
		if monitor != nil {
			o.monitor = monitor
		}
	}
}

func NewRetriever(filePath string, opts ...RetrieverOption) (*Retriever, error) {
	// Apply options
	options := &retrieverOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		config:   core.DefaultConfig(),
		monitor:  retrieve.NoopMonitor,
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.config.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	vectorIndex, err := badger.NewIndex(chunkRepo, provider.Embedder())
	if err != nil {
		provider.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	fanout, err := search.NewFanout(vectorIndex)
	if err != nil {
		provider.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	loop, err := retrieve.NewLoop(provider, fanout, retrieve.WithMonitor(options.monitor))
	if err != nil {
		provider.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Retriever{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		loop:      loop,
		config:    options.config,
		logger:    slog.Default(),
	}, nil
}

// AnswerQuery runs the full retrieval cycle for one query.
func (r *Retriever) AnswerQuery(ctx context.Context, query string) (*retrieve.Result, error) {
	return r.loop.AnswerQuery(ctx, query, r.config)
}

func (r *Retriever) Close() error {
	// Close AI provider first
	if err := r.provider.Close(); err != nil {
		r.logger.Error("error closing AI provider", "err", err)
	}

	// Close repository
	if err := r.chunkRepo.Close(); err != nil {
		r.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := r.backend.Close(); err != nil {
		r.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (r *Retriever) ChunkRepository() index.ChunkRepository {
	return r.chunkRepo
}

func (r *Retriever) Provider() ai.AIProvider {
	return r.provider
}

func (r *Retriever) Config() core.Config {
	return r.config
}
