package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/microscan/internal/model"
)

// MockInvoker is a test implementation of the Invoker interface.
// Responses are keyed by lowercased product name.
type MockInvoker struct {
	responses map[string][]model.ClassificationRecord
	errors    map[string]error
	// Block, when set, holds every call until it is closed.
	Block chan struct{}
	calls []string
	mu    sync.Mutex
}

// NewMockInvoker creates a new mock invoker.
func NewMockInvoker() *MockInvoker {
	return &MockInvoker{
		responses: make(map[string][]model.ClassificationRecord),
		errors:    make(map[string]error),
	}
}

// SetResponse scripts the records returned for name.
func (m *MockInvoker) SetResponse(name string, records ...model.ClassificationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[strings.ToLower(name)] = records
}

// SetError scripts a failure for name.
func (m *MockInvoker) SetError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[strings.ToLower(name)] = err
}

// Invoke records the call and returns the scripted response. Unscripted names yield nothing.
func (m *MockInvoker) Invoke(_ context.Context, name string) ([]model.ClassificationRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if err, ok := m.errors[key]; ok {
		return nil, err
	}

	out := make([]model.ClassificationRecord, len(m.responses[key]))
	copy(out, m.responses[key])
	return out, nil
}

// Calls returns the names Invoke was called with.
func (m *MockInvoker) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Invoke was called.
func (m *MockInvoker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
