package responder

import (
	"context"
	"sync"
)

// Mock implements Responder for testing.
type Mock struct {
	// RespondFunc is called when Respond is invoked.
	// If nil, the quick-response table is consulted and then a fixed
	// reply is returned, mirroring the real responder's short-circuit.
	RespondFunc func(ctx context.Context, userText string, history []Turn) (string, error)

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock responder with the quick-table short-circuit.
func NewMock() *Mock {
	return &Mock{}
}

// Respond calls RespondFunc and records the call.
func (m *Mock) Respond(ctx context.Context, userText string, history []Turn) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, userText, history)
	}
	if reply, ok := QuickResponse(userText); ok {
		return reply, nil
	}
	return "Hoot hoot! What a great question!", nil
}

// CallCount returns the number of Respond invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
