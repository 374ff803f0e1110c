// Package device runs the BUMA client loop on the listening device.
//
// The loop is a small state machine: idle listening for the wake word,
// recording the child's question, sending it to the backend, playing
// the reply, back to idle. Every failure edge returns to idle with a
// logged message and no retry. Hardware and network collaborators are
// interfaces so the loop is testable without a microphone.
package device

import (
	"context"
	"time"
)

// State is the client loop state.
type State int

const (
	// StateIdle is listening for the wake word.
	StateIdle State = iota
	// StateRecording is capturing the child's question.
	StateRecording
	// StateSending is waiting on the backend.
	StateSending
	// StatePlaying is playing the reply audio.
	StatePlaying
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateSending:
		return "sending"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// FrameSource supplies the continuous audio frame stream scanned for
// the wake word.
type FrameSource interface {
	// ReadFrame blocks until the next frame is available. The returned
	// slice is reused between calls.
	ReadFrame() ([]int16, error)
}

// Recorder captures a fixed-duration question to a WAV file.
type Recorder interface {
	// Record captures audio for the given duration and returns the
	// path of the written WAV file.
	Record(ctx context.Context, duration time.Duration) (string, error)
}

// Backend is the conversation backend.
type Backend interface {
	// Ask uploads the question audio and writes the reply audio to a
	// local file, returning its path.
	Ask(ctx context.Context, audioPath, userID string) (string, error)

	// Health pings the backend health endpoint.
	Health(ctx context.Context) error
}

// Player plays a WAV file through the default output device.
type Player interface {
	Play(ctx context.Context, path string) error
}
