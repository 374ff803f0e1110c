package wake

import (
	"errors"
	"fmt"

	porcupine "github.com/Picovoice/porcupine/binding/go/v3"
)

// Sentinel errors for detector construction.
var (
	// ErrNoAccessKey is returned when the Picovoice access key is missing.
	ErrNoAccessKey = errors.New("wake: access key required")

	// ErrNoKeywordPath is returned when no keyword model path is given.
	ErrNoKeywordPath = errors.New("wake: keyword model path required")
)

// Porcupine implements Detector using the Picovoice Porcupine engine
// with a custom keyword model (.ppn file).
type Porcupine struct {
	engine porcupine.Porcupine
}

// NewPorcupine initializes the engine with the given access key and
// keyword model path.
func NewPorcupine(accessKey, keywordPath string) (*Porcupine, error) {
	if accessKey == "" {
		return nil, ErrNoAccessKey
	}
	if keywordPath == "" {
		return nil, ErrNoKeywordPath
	}

	p := &Porcupine{
		engine: porcupine.Porcupine{
			AccessKey:    accessKey,
			KeywordPaths: []string{keywordPath},
		},
	}
	if err := p.engine.Init(); err != nil {
		return nil, fmt.Errorf("wake: init porcupine: %w", err)
	}

	return p, nil
}

// Process examines one frame and reports a wake-word hit.
func (p *Porcupine) Process(frame []int16) (bool, error) {
	index, err := p.engine.Process(frame)
	if err != nil {
		return false, fmt.Errorf("wake: process frame: %w", err)
	}
	return index >= 0, nil
}

// FrameLength returns the engine's required samples per frame.
func (p *Porcupine) FrameLength() int {
	return porcupine.FrameLength
}

// SampleRate returns the engine's required sample rate.
func (p *Porcupine) SampleRate() int {
	return porcupine.SampleRate
}

// Close releases engine resources.
func (p *Porcupine) Close() error {
	return p.engine.Delete()
}
