package generator

import (
	"context"
	"sync"
)

// MockGenerator records the prompts it receives and returns a canned answer.
// Used in tests and by the mock provider so the pipeline runs without a
// model backend.
type MockGenerator struct {
	mu      sync.Mutex
	calls   int
	queries []string
	Answer  string
}

// NewMock creates a mock generator with a default echo answer.
func NewMock() *MockGenerator {
	return &MockGenerator{Answer: "Risposta basata sui dati forniti."}
}

func (m *MockGenerator) Generate(_ context.Context, query, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.queries = append(m.queries, query)
	return m.Answer, nil
}

// Calls reports how many times Generate was invoked.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Queries returns the queries seen so far, in call order.
func (m *MockGenerator) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
