package badger

import (
	"context"
	"log/slog"

	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/index"
)

// Index implements index.VectorSearch over a local BadgerDB chunk store.
// Query text is embedded and matched against stored chunk vectors by
// cosine similarity.
type Index struct {
	repository index.ChunkRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

var _ index.VectorSearch = (*Index)(nil)

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndex creates a vector search index over the given repository.
func NewIndex(repository index.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Index, error) {
	if repository == nil {
		return nil, index.ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	ix := &Index{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// Search embeds the query text and returns the topK nearest chunks.
func (ix *Index) Search(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
	vector, err := ix.embedder.EmbedText(ctx, queryText)
	if err != nil {
		ix.logger.Error("error generating embedding for query", "query", queryText, "err", err)
		return nil, err
	}

	scored, err := ix.repository.FindSimilar(ctx, vector, topK)
	if err != nil {
		ix.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	matches := make([]index.Match, 0, len(scored))
	for _, s := range scored {
		matches = append(matches, index.Match{
			Id:       s.Record.Id,
			Score:    s.Score,
			Text:     s.Record.Text,
			Metadata: s.Record.Metadata(),
		})
	}

	ix.logger.Debug("vector search complete", "query", queryText, "matches", len(matches))
	return matches, nil
}
