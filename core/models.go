package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed chunks.
// It is generated using content-based hashing at index time.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// QueryType labels what kind of answer a query expects.
type QueryType int

const (
	// QueryTypeResearchQuestion asks about concepts, interpretations,
	// relationships, or causes and effects.
	QueryTypeResearchQuestion QueryType = iota + 1
	// QueryTypeDataLookup asks for a specific metric, threshold, number,
	// or exact data point.
	QueryTypeDataLookup
)

// String returns the wire label for the query type.
func (t QueryType) String() string {
	switch t {
	case QueryTypeDataLookup:
		return "data_lookup"
	default:
		return "research_question"
	}
}

// QueryTypeFromLabel parses a classification label.
// Unrecognized labels map to QueryTypeResearchQuestion.
func QueryTypeFromLabel(label string) QueryType {
	if label == "data_lookup" {
		return QueryTypeDataLookup
	}
	return QueryTypeResearchQuestion
}

// Query is a user question after classification.
// It is immutable once classified.
type Query struct {
	Text string
	Type QueryType
}

// OriginalDimension is the reserved provenance name for the verbatim
// user query. Expanders must never generate a dimension with this name.
const OriginalDimension = "original"

// ExpandedQuery is one model-generated search variant of a query.
// The dimension name is invented by the model for this specific query;
// there is no fixed taxonomy.
type ExpandedQuery struct {
	Dimension string
	Reasoning string
	Text      string
}

// ChunkMetadata carries the descriptive fields stored alongside a chunk.
type ChunkMetadata struct {
	Source   string    // Research house or author, e.g. "Goldman Sachs"
	Channel  string    // Distribution channel the note came from
	Category string    // Content category, e.g. "liquidity", "rates"
	Date     time.Time // Publication date
}

// Chunk is a retrieved evidence fragment. Identity is by Id; contents are
// immutable once retrieved. Provenance lists the dimension names of every
// query variant that retrieved it.
type Chunk struct {
	Id         ID
	Text       string
	Score      float32
	Metadata   ChunkMetadata
	Provenance []string
}

// Verdict is a sufficiency judgment over an evidence set.
type Verdict struct {
	Sufficient    bool
	MissingAspect string // Hint for the next expansion round, may be empty
	Reason        string // Optional model rationale
}

// LogicChain is a causal or implicational link extracted across one or
// more chunks. Premises precede conclusions; multiple chains may share a
// premise, forming a DAG of reasoning rather than a flat list.
type LogicChain struct {
	Premise    string
	Conclusion string
	Mechanism  string // How the premise produces the conclusion
	Supporting []ID   // Chunk ids backing this link
}

// SynthesizedContext is structured, cross-linked evidence produced from a
// chunk set before answer generation.
type SynthesizedContext struct {
	WhatHappened   string
	Interpretation string
	UsedData       string
	Chains         []LogicChain
}

// Empty reports whether the context carries no usable evidence.
func (c SynthesizedContext) Empty() bool {
	return c.WhatHappened == "" && c.Interpretation == "" &&
		c.UsedData == "" && len(c.Chains) == 0
}

// Answer is the final cited response to one query.
type Answer struct {
	Text           string
	Citations      []ID // Always a subset of the chunk set given to synthesis
	Classification QueryType
	Iterations     int
}

// ChunkRecord is the stored form of a chunk in the local index:
// text, metadata, and its embedding vector.
type ChunkRecord struct {
	Id         ID
	Text       string
	Source     string
	Channel    string
	Category   string
	Date       time.Time
	Vector     []float32
	InsertedAt time.Time
}

// Metadata returns the record's descriptive fields as ChunkMetadata.
func (r *ChunkRecord) Metadata() ChunkMetadata {
	return ChunkMetadata{
		Source:   r.Source,
		Channel:  r.Channel,
		Category: r.Category,
		Date:     r.Date,
	}
}
