package tts

import (
	"context"
	"sync"
	"time"
)

// Mock implements Synthesizer for testing.
type Mock struct {
	// SynthesizeFunc is called when Synthesize is invoked.
	// If nil, returns silent audio sized by the text length.
	SynthesizeFunc func(ctx context.Context, text string) (*AudioResult, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Text string
	Time time.Time
}

// NewMock creates a new mock synthesizer with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) (*AudioResult, error) {
			// Roughly 20ms of 22.05kHz PCM16 per character
			silence := make([]byte, len(text)*882)
			return &AudioResult{
				Audio:     silence,
				CharCount: len(text),
				LatencyMs: 5,
			}, nil
		},
	}
}

// WithError returns a mock that always returns the given error.
func WithError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) (*AudioResult, error) {
			return nil, err
		},
	}
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *Mock) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Text: text, Time: time.Now()})
	m.mu.Unlock()
	return m.SynthesizeFunc(ctx, text)
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of Synthesize invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
