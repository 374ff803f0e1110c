package stt

import (
	"context"
	"sync"
)

// Mock implements Transcriber for testing.
type Mock struct {
	// TranscribeFunc is called when Transcribe is invoked.
	// If nil, returns a fixed French transcription.
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (*Transcription, error)

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock transcriber returning a fixed result.
func NewMock() *Mock {
	return &Mock{
		TranscribeFunc: func(ctx context.Context, audio []byte, filename string) (*Transcription, error) {
			return &Transcription{Text: "bonjour", Language: "fr"}, nil
		},
	}
}

// Transcribe calls TranscribeFunc and records the call.
func (m *Mock) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.TranscribeFunc(ctx, audio, filename)
}

// CallCount returns the number of Transcribe invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
