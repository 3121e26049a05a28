package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/reperit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "info", level: "info"},
		{name: "warn", level: "warn"},
		{name: "error", level: "error"},
		{name: "uppercase accepted", level: "INFO"},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Action: func(c *cli.Context) error {
					return setupLogger(c)
				},
			}

			err := app.Run([]string{"reperit", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeedRecord(t *testing.T) {
	t.Run("complete chunk", func(t *testing.T) {
		record, err := seedRecord(seedChunk{
			Text:     "deposits fell sharply",
			Source:   "GS",
			Channel:  "macro-notes",
			Category: "liquidity",
			Date:     "2024-03-15",
		})
		require.NoError(t, err)

		assert.Equal(t, "deposits fell sharply", record.Text)
		assert.Equal(t, "GS", record.Source)
		assert.Equal(t, "macro-notes", record.Channel)
		assert.Equal(t, "liquidity", record.Category)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), record.Date)
	})

	t.Run("date is optional", func(t *testing.T) {
		record, err := seedRecord(seedChunk{Text: "undated note"})
		require.NoError(t, err)
		assert.True(t, record.Date.IsZero())
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := seedRecord(seedChunk{Source: "GS"})
		assert.Error(t, err)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		_, err := seedRecord(seedChunk{Text: "x", Date: "March 15"})
		assert.Error(t, err)
	})
}

func TestSeedRecord_IDAssignedAtStore(t *testing.T) {
	record, err := seedRecord(seedChunk{Text: "assigned on store"})
	require.NoError(t, err)
	assert.Equal(t, core.ID(0), record.Id)
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Value: "embeddinggemma"},
					&cli.StringFlag{Name: "fast-model", Value: "qwen2.5:3b"},
					&cli.StringFlag{Name: "deep-model", Value: "qwen2.5:3b"},
					&cli.IntFlag{Name: "top-k", Value: 10},
					&cli.Float64Flag{Name: "threshold", Value: 0.45},
					&cli.IntFlag{Name: "max-chunks", Value: 15},
					&cli.IntFlag{Name: "iterations", Value: 3},
					&cli.IntFlag{Name: "concurrency", Value: 10},
					&cli.DurationFlag{Name: "deadline"},
					&cli.BoolFlag{Name: "trace"},
				},
			},
		},
	}

	dbPath := filepath.Join(t.TempDir(), "db")
	err := app.Run([]string{"reperit", "ask", "--db", dbPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question")
}

func TestSeedCommand_RequiresFile(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Value: "embeddinggemma"},
					&cli.IntFlag{Name: "batch-size", Value: 100},
				},
			},
		},
	}

	err := app.Run([]string{"reperit", "seed", "--db", filepath.Join(t.TempDir(), "db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSONL")
}

func TestSeedCommand_MissingFile(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "host", Value: "http://localhost:11434/v1"},
					&cli.StringFlag{Name: "embedding-model", Value: "embeddinggemma"},
					&cli.IntFlag{Name: "batch-size", Value: 100},
				},
			},
		},
	}

	missing := filepath.Join(t.TempDir(), "missing.jsonl")
	err := app.Run([]string{"reperit", "seed", "--db", filepath.Join(t.TempDir(), "db"), missing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed file")
}
