package extract

import (
	"context"
	"sync"

	"github.com/txintel/txintel/internal/model"
)

// MockExtractor is a deterministic Extractor for tests. It returns the
// configured result or error, records every call, and honors context
// cancellation.
type MockExtractor struct {
	Err    error
	Result model.ExtractionResult

	mu    sync.Mutex
	calls []string
}

var _ Extractor = (*MockExtractor)(nil)

func (m *MockExtractor) Extract(ctx context.Context, document string, _ []model.ExampleDocument, _ Params) (model.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ExtractionResult{}, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, document)
	m.mu.Unlock()

	if m.Err != nil {
		return model.ExtractionResult{}, m.Err
	}
	result := m.Result
	result.Document = document
	return result, nil
}

// Calls returns the documents passed to Extract, in order.
func (m *MockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
