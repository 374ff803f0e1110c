// Package config provides environment configuration helpers for buma commands.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults shared by the server and client commands.
const (
	DefaultPort          = "5000"
	DefaultBackendURL    = "http://localhost:5000"
	DefaultVoice         = "fr_FR-siwis-medium"
	DefaultRecordSeconds = 5
)

// GroqAPIKey returns the Groq API key from GROQ_API_KEY.
// Exits with a usage message if not set: the backend cannot
// transcribe or generate without it.
func GroqAPIKey() string {
	key := os.Getenv("GROQ_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: GROQ_API_KEY environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: GROQ_API_KEY=gsk_... go run ./cmd/buma-server")
		os.Exit(1)
	}
	return key
}

// DatabaseURL returns the store connection string from DATABASE_URL.
// Empty means persistence is disabled and the server runs stateless.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// Voice returns the TTS voice model from TTS_VOICE or the default.
func Voice() string {
	if v := os.Getenv("TTS_VOICE"); v != "" {
		return v
	}
	return DefaultVoice
}

// VoicesDir returns the optional local voice model directory from TTS_VOICES_DIR.
func VoicesDir() string {
	return os.Getenv("TTS_VOICES_DIR")
}

// BackendURL returns the backend base URL from BACKEND_URL or the default.
func BackendURL(defaultURL string) string {
	if u := os.Getenv("BACKEND_URL"); u != "" {
		return u
	}
	return defaultURL
}

// RecordSeconds returns the question recording length from
// RECORD_SECONDS or the given default. Unparseable values fall back
// to the default.
func RecordSeconds(defaultSecs int) int {
	v := os.Getenv("RECORD_SECONDS")
	if v == "" {
		return defaultSecs
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultSecs
	}
	return n
}

// PorcupineKey returns the Picovoice access key from PORCUPINE_KEY.
// Empty is allowed: the client falls back to the energy detector.
func PorcupineKey() string {
	return os.Getenv("PORCUPINE_KEY")
}

// WakeWordPath returns the wake word model path from WAKE_WORD_PATH or the default.
func WakeWordPath() string {
	if p := os.Getenv("WAKE_WORD_PATH"); p != "" {
		return p
	}
	return "BUMA_raspberry-pi.ppn"
}
