package mock

import (
	"context"
	"sync"

	"github.com/poiesic/reperit/index"
)

// MockVectorSearch is a test double for index.VectorSearch.
// It allows custom behavior injection via function fields.
// Safe for concurrent use; the fan-out calls Search from pool workers.
type MockVectorSearch struct {
	// SearchFunc is called by Search if set.
	// If nil, returns results scripted via AddResults.
	SearchFunc func(ctx context.Context, queryText string, topK int) ([]index.Match, error)

	// results maps query text to canned matches.
	results map[string][]index.Match

	mu        sync.Mutex
	callCount int
	queries   []string
}

// NewMockVectorSearch creates a mock vector search with no scripted results.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockVectorSearch() *MockVectorSearch {
	return &MockVectorSearch{
		results: make(map[string][]index.Match),
	}
}

// AddResults scripts the matches returned for an exact query text.
func (m *MockVectorSearch) AddResults(queryText string, matches ...index.Match) {
	m.results[queryText] = append(m.results[queryText], matches...)
}

// Search returns scripted results for the query, truncated to topK.
func (m *MockVectorSearch) Search(ctx context.Context, queryText string, topK int) ([]index.Match, error) {
	m.mu.Lock()
	m.callCount++
	m.queries = append(m.queries, queryText)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, queryText, topK)
	}

	matches := m.results[queryText]
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// CallCount returns the number of times Search was called.
func (m *MockVectorSearch) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Queries returns every query text Search received, in call order.
func (m *MockVectorSearch) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
