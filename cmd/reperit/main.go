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


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/reperit"
	"github.com/poiesic/reperit/ai"
	"github.com/poiesic/reperit/ai/openai"
	"github.com/poiesic/reperit/core"
	"github.com/poiesic/reperit/index/badger"
	"github.com/poiesic/reperit/retrieve"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "reperit",
		Usage: "Agentic retrieval over a local index of financial research notes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a question from the indexed research notes",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings and chat",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "fast-model",
						Usage: "Model for classification, expansion, and sufficiency judging",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "deep-model",
						Usage: "Model for synthesis and answer generation",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Results fetched per query variant",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score for a chunk to be kept",
						Value: 0.45,
					},
					&cli.IntFlag{
						Name:  "max-chunks",
						Usage: "Chunk budget for synthesis and answering",
						Value: 15,
					},
					&cli.IntFlag{
						Name:  "iterations",
						Usage: "Maximum search/evaluate passes",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Maximum concurrent search calls",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "deadline",
						Usage: "Overall time budget for the query (0 = none)",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print the full retrieval trace after the answer",
					},
				},
			},
			{
				Name:      "seed",
				Usage:     "Index research note chunks from a JSONL file",
				ArgsUsage: "<chunks.jsonl>",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for embeddings",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed and store per batch",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithFastModel(c.String("fast-model")),
		ai.WithDeepModel(c.String("deep-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	config := core.Config{
		TopK:                c.Int("top-k"),
		SimilarityThreshold: float32(c.Float64("threshold")),
		MaxChunksForAnswer:  c.Int("max-chunks"),
		MaxIterations:       c.Int("iterations"),
		MaxConcurrentCalls:  c.Int("concurrency"),
		Deadline:            c.Duration("deadline"),
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid retrieval configuration: %w", err)
	}

	trace := retrieve.NewTrace()
	opts := []reperit.RetrieverOption{
		reperit.WithAIConfig(aiConfig),
		reperit.WithConfig(config),
	}
	if c.Bool("trace") {
		opts = append(opts, reperit.WithMonitor(trace))
	}

	retriever, err := reperit.NewRetriever(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to open retriever: %w", err)
	}
	defer retriever.Close()

	result, err := retriever.AnswerQuery(ctx, question)
	if err != nil && !errors.Is(err, core.ErrNoEvidence) {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(result.Answer.Text)
	fmt.Println()
	fmt.Printf("classification: %s, passes: %d, chunks considered: %d\n",
		result.Answer.Classification, result.Answer.Iterations, len(result.Chunks))
	if len(result.Answer.Citations) > 0 {
		fmt.Print("citations:")
		for _, id := range result.Answer.Citations {
			fmt.Printf(" %d", id)
		}
		fmt.Println()
	}

	if c.Bool("trace") {
		printTrace(trace)
	}
	return nil
}

func printTrace(trace *retrieve.Trace) {
	fmt.Fprintln(os.Stderr)
	for _, pass := range trace.Passes {
		fmt.Fprintf(os.Stderr, "pass %d: %d expansions, %d chunks\n",
			pass.Pass, len(pass.Expansions), len(pass.ChunkIds))
		for _, exp := range pass.Expansions {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", exp.Dimension, exp.Text)
			if exp.Reasoning != "" {
				fmt.Fprintf(os.Stderr, "    %s\n", exp.Reasoning)
			}
		}
		if pass.Verdict.Sufficient {
			fmt.Fprintln(os.Stderr, "  verdict: sufficient")
		} else if pass.Verdict.MissingAspect != "" {
			fmt.Fprintf(os.Stderr, "  verdict: insufficient, missing %q\n", pass.Verdict.MissingAspect)
		}
	}
}

// seedChunk is one line of a seed JSONL file.
type seedChunk struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Channel  string `json:"channel"`
	Category string `json:"category"`
	Date     string `json:"date"` // YYYY-MM-DD
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	srcPath := c.Args().First()
	if srcPath == "" {
		return fmt.Errorf("a JSONL file of chunks is required")
	}
	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	stored := 0
	batch := make([]*core.ChunkRecord, 0, batchSize)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk seedChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return fmt.Errorf("malformed seed line: %w", err)
		}
		record, err := seedRecord(chunk)
		if err != nil {
			return err
		}

		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := storeBatch(ctx, repo, embedder, batch); err != nil {
				return err
			}
			stored += len(batch)
			fmt.Fprintf(os.Stderr, "indexed %d chunks\n", stored)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	if len(batch) > 0 {
		if err := storeBatch(ctx, repo, embedder, batch); err != nil {
			return err
		}
		stored += len(batch)
	}

	fmt.Fprintf(os.Stderr, "done, indexed %d chunks\n", stored)
	return nil
}

func seedRecord(chunk seedChunk) (*core.ChunkRecord, error) {
	if strings.TrimSpace(chunk.Text) == "" {
		return nil, fmt.Errorf("seed chunk has empty text")
	}

	record := &core.ChunkRecord{
		Text:     chunk.Text,
		Source:   chunk.Source,
		Channel:  chunk.Channel,
		Category: chunk.Category,
	}
	if chunk.Date != "" {
		date, err := time.Parse("2006-01-02", chunk.Date)
		if err != nil {
			return nil, fmt.Errorf("malformed date %q: %w", chunk.Date, err)
		}
		record.Date = date
	}
	return record, nil
}

func storeBatch(ctx context.Context, repo *badger.ChunkRepository, embedder ai.Embedder, batch []*core.ChunkRecord) error {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(batch))
	}
	for i, record := range batch {
		record.Vector = vectors[i]
	}

	if _, err := repo.AddChunks(ctx, batch...); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
