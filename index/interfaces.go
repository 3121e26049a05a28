package index

import (
	"context"

	"github.com/poiesic/reperit/core"
)

// Match is one nearest-neighbor result from a vector search.
type Match struct {
	Id       core.ID
	Score    float32
	Text     string
	Metadata core.ChunkMetadata
}

// VectorSearch is the read-only semantic search capability the retrieval
// core consumes. Implementations must be idempotent: the same query text
// against the same index returns the same matches.
// Implementations must be thread-safe for concurrent use.
type VectorSearch interface {
	// Search returns up to topK chunks nearest to the query text, ordered
	// by descending similarity. It never mutates the index.
	Search(ctx context.Context, queryText string, topK int) ([]Match, error)
}

// ScoredRecord pairs a stored chunk record with its similarity score.
type ScoredRecord struct {
	Record *core.ChunkRecord
	Score  float32
}

// ChunkRepository provides storage operations for chunk records. The
// retrieval core only reads; writes exist for the seeding tooling that
// populates a local index.
type ChunkRepository interface {
	// AddChunks stores chunk records. Records with an Id of zero get a
	// content-derived id. Returns the stored records.
	AddChunks(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error)

	// GetChunks retrieves chunk records by id. Missing ids yield nil
	// entries at their positions.
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.ChunkRecord, error)

	// FindSimilar returns up to limit records nearest to the vector,
	// ordered by descending cosine similarity.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]ScoredRecord, error)

	// Close releases repository resources.
	Close() error
}
