// Package wake detects the wake word that moves the client from idle
// listening into recording.
//
// The production detector is Porcupine with a custom "BUMA" keyword
// model. The Energy detector is a keyless RMS gate for development and
// tests. Both consume fixed-size PCM16 mono frames.
package wake

// Detector consumes a continuous stream of audio frames and reports
// wake-word hits.
type Detector interface {
	// Process examines one frame of exactly FrameLength() samples and
	// returns true when the wake word was detected.
	Process(frame []int16) (bool, error)

	// FrameLength returns the required samples per frame.
	FrameLength() int

	// SampleRate returns the required sample rate in Hz.
	SampleRate() int

	// Close releases detector resources.
	Close() error
}
