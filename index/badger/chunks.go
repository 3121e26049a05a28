package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
)

// ChunkRepository implements index.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ index.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, index.ErrBackendRequired
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *ChunkRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]index.ScoredRecord, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// AddChunks adds one or more chunk records to storage. Records without an
// id get a content-derived one, so re-seeding the same export is
// idempotent.
func (r *ChunkRepository) AddChunks(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Text)
			}
			record.InsertedAt = time.Now().UTC()

			// Store primary record
			key := makeChunkRecordKey(record.Id)
			value := index.MarshalChunkRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			if !record.Date.IsZero() {
				dateKey := makeChunkDateKey(record.Date, record.Id)
				if err := tx.Set(dateKey, index.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetChunks retrieves chunk records by id. Missing ids yield nil entries
// at their positions.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.ChunkRecord, error) {
	records := make([]*core.ChunkRecord, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, id := range ids {
			item, err := tx.Get(makeChunkRecordKey(id))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				record, err := index.UnmarshalChunkRecord(val)
				if err != nil {
					return err
				}
				records[i] = record
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}
