package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
)

// Variant pairs one query text with the dimension name it came from.
// The verbatim user query uses core.OriginalDimension.
type Variant struct {
	Dimension string
	Text      string
}

// Fanout issues one vector search per query variant. Calls within one pass
// are independent and run concurrently on a bounded worker pool; results
// are filtered by the similarity threshold and merged by chunk id before
// being returned.
type Fanout struct {
	index       index.VectorSearch
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Fanout.
type Option func(*Fanout) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fanout) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithCallTimeout sets the per-search-call timeout.
// Default is 30 seconds.
func WithCallTimeout(timeout time.Duration) Option {
	return func(f *Fanout) error {
		if timeout > 0 {
			f.callTimeout = timeout
		}
		return nil
	}
}

// NewFanout creates a new search fan-out over the given vector index.
func NewFanout(vectorSearch index.VectorSearch, opts ...Option) (*Fanout, error) {
	if vectorSearch == nil {
		return nil, ErrVectorSearchRequired
	}

	f := &Fanout{
		index:       vectorSearch,
		callTimeout: 30 * time.Second,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Run searches every variant and returns this pass's merged chunk set.
// Matches below the similarity threshold or failing core.ValidateChunk
// are dropped. A failed variant is skipped; the pass fails only when
// every variant fails, in which case the error wraps core.ErrRetrieval.
// The pool size caps outstanding calls at cfg.MaxConcurrentCalls.
func (f *Fanout) Run(ctx context.Context, variants []Variant, cfg core.Config) ([]*core.Chunk, error) {
	if len(variants) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(cfg.MaxConcurrentCalls)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	type variantResult struct {
		variant Variant
		matches []index.Match
		err     error
	}

	results := make([]variantResult, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			matches, err := f.searchOnce(ctx, variant, cfg.TopK)
			results[i] = variantResult{variant: variant, matches: matches, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = variantResult{variant: variant, err: submitErr}
		}
	}
	wg.Wait()

	// Fan-in: merge only after every branch has completed or failed.
	merged := make(map[core.ID]*core.Chunk)
	failures := 0
	for _, res := range results {
		if res.err != nil {
			failures++
			f.logger.Warn("search variant failed, skipping",
				"dimension", res.variant.Dimension,
				"err", res.err)
			continue
		}

		for _, match := range res.matches {
			if match.Score < cfg.SimilarityThreshold {
				continue
			}
			candidate := &core.Chunk{Id: match.Id, Text: match.Text, Score: match.Score}
			if err := core.ValidateChunk(candidate); err != nil {
				f.logger.Warn("dropping malformed match",
					"id", match.Id,
					"dimension", res.variant.Dimension,
					"err", err)
				continue
			}
			MergeMatch(merged, match, res.variant.Dimension)
		}
	}

	if failures == len(variants) {
		return nil, core.ErrRetrieval
	}

	chunks := Ranked(merged)
	f.logger.Debug("fanout pass complete",
		"variants", len(variants),
		"failures", failures,
		"chunks", len(chunks))

	return chunks, nil
}

// searchOnce performs one search call with a timeout and a single
// immediate retry on failure. No backoff; anything beyond one retry is
// surfaced to the merge step as a skipped variant.
func (f *Fanout) searchOnce(ctx context.Context, variant Variant, topK int) ([]index.Match, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	matches, err := f.index.Search(callCtx, variant.Text, topK)
	if err == nil {
		return matches, nil
	}
	if ctx.Err() != nil {
		// Overall deadline hit; retrying cannot help.
		return nil, err
	}

	f.logger.Debug("retrying search variant", "dimension", variant.Dimension, "err", err)

	retryCtx, retryCancel := context.WithTimeout(ctx, f.callTimeout)
	defer retryCancel()
	return f.index.Search(retryCtx, variant.Text, topK)
}
