// Package tts provides text-to-speech synthesis for buma.
//
// The default provider is Piper, a local neural TTS engine invoked as a
// subprocess once per call. All providers implement the Synthesizer
// interface, so the pipeline can swap in a remote or in-process engine
// (or a mock) without changing caller code.
//
// Example usage:
//
//	synth, _ := tts.NewPiper(tts.WithVoice("fr_FR-siwis-medium"))
//	result, _ := synth.Synthesize(ctx, "Hoot hoot! Bonjour!")
//	// result.Audio contains WAV audio bytes
package tts

import "context"

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize converts text to audio, returning the complete audio
	// buffer. Text of any length is accepted; there is no chunking.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)
}

// AudioResult represents a complete synthesis result.
type AudioResult struct {
	// Audio contains WAV audio bytes.
	Audio []byte

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the synthesis wall-clock time in milliseconds.
	LatencyMs int64
}

// ContentType is the MIME type of synthesized audio.
const ContentType = "audio/wav"
