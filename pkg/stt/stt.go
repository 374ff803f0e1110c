// Package stt provides speech-to-text transcription for buma.
//
// The backend uses Groq's Whisper endpoint, but any OpenAI-compatible
// /audio/transcriptions endpoint works via WithBaseURL. Implementations
// satisfy the Transcriber interface so the pipeline can swap providers
// (or a mock) without changing caller code.
package stt

import "context"

// DefaultLanguage is assumed when the provider does not report one.
const DefaultLanguage = "fr"

// Transcription is the result of transcribing an audio clip.
type Transcription struct {
	// Text is the recognized speech, whitespace-trimmed.
	Text string

	// Language is the detected language tag (e.g. "fr", "en").
	// Defaults to DefaultLanguage when the provider omits it.
	Language string
}

// Transcriber converts raw audio bytes to text.
type Transcriber interface {
	// Transcribe sends audio to the provider and returns the transcription.
	// filename is a hint for the provider's format sniffing; empty means
	// "audio.wav". No local validation is done on the audio bytes.
	Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error)
}
