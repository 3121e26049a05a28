package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkRepository(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		_, err := NewChunkRepository(nil)
		assert.Equal(t, index.ErrBackendRequired, err)
	})

	t.Run("valid backend", func(t *testing.T) {
		repo, backend, err := NewMemoryRepository()
		require.NoError(t, err)
		defer func() {
			repo.Close()
			backend.Close()
		}()
		assert.NotNil(t, repo)
	})
}

func TestChunkRepository_AddAndGet(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	records := []*core.ChunkRecord{
		{
			Text:     "Regional bank deposits fell 4% in Q1",
			Source:   "Goldman Sachs",
			Channel:  "macro-notes",
			Category: "liquidity",
			Date:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Vector:   []float32{1, 0, 0},
		},
		{
			Text:   "Money market funds absorbed the outflows",
			Source: "JPM",
			Vector: []float32{0, 1, 0},
		},
	}

	stored, err := repo.AddChunks(ctx, records...)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	t.Run("ids are content derived", func(t *testing.T) {
		assert.Equal(t, core.IDFromContent(records[0].Text), stored[0].Id)
		assert.Equal(t, core.IDFromContent(records[1].Text), stored[1].Id)
	})

	t.Run("inserted timestamp set", func(t *testing.T) {
		assert.False(t, stored[0].InsertedAt.IsZero())
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.GetChunks(ctx, stored[0].Id, stored[1].Id)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NotNil(t, got[0])
		require.NotNil(t, got[1])

		assert.Equal(t, records[0].Text, got[0].Text)
		assert.Equal(t, "Goldman Sachs", got[0].Source)
		assert.Equal(t, "liquidity", got[0].Category)
		assert.True(t, records[0].Date.Equal(got[0].Date))
		assert.Equal(t, []float32{1, 0, 0}, got[0].Vector)

		assert.Equal(t, records[1].Text, got[1].Text)
	})

	t.Run("missing id yields nil entry", func(t *testing.T) {
		got, err := repo.GetChunks(ctx, stored[0].Id, core.ID(999999))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotNil(t, got[0])
		assert.Nil(t, got[1])
	})

	t.Run("re-adding same text is idempotent", func(t *testing.T) {
		again := &core.ChunkRecord{
			Text:   "Regional bank deposits fell 4% in Q1",
			Vector: []float32{1, 0, 0},
		}
		stored2, err := repo.AddChunks(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, stored[0].Id, stored2[0].Id)
	})

	t.Run("explicit id preserved", func(t *testing.T) {
		record := &core.ChunkRecord{
			Id:     core.ID(7),
			Text:   "explicit id record",
			Vector: []float32{0, 0, 1},
		}
		stored, err := repo.AddChunks(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, core.ID(7), stored[0].Id)
	})
}

func TestChunkRepository_FindSimilar(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	_, err = repo.AddChunks(ctx,
		&core.ChunkRecord{Text: "exact match", Vector: []float32{1, 0, 0}},
		&core.ChunkRecord{Text: "partial match", Vector: []float32{0.8, 0.6, 0}},
		&core.ChunkRecord{Text: "orthogonal", Vector: []float32{0, 0, 1}},
	)
	require.NoError(t, err)

	t.Run("ordered by similarity", func(t *testing.T) {
		scored, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, scored, 3)

		assert.Equal(t, "exact match", scored[0].Record.Text)
		assert.InDelta(t, 1.0, scored[0].Score, 0.001)
		assert.Equal(t, "partial match", scored[1].Record.Text)
		assert.InDelta(t, 0.8, scored[1].Score, 0.001)
		assert.Equal(t, "orthogonal", scored[2].Record.Text)
		assert.InDelta(t, 0.0, scored[2].Score, 0.001)
	})

	t.Run("limit respected", func(t *testing.T) {
		scored, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, scored, 2)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.FindSimilar(cancelled, []float32{1, 0, 0}, 10)
		assert.Error(t, err)
	})
}

func TestChunkRepository_FindSimilar_Empty(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	scored, err := repo.FindSimilar(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, scored)
}
