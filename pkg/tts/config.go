package tts

import "log/slog"

// Default synthesis settings.
const (
	// DefaultVoice is a medium-quality French voice.
	DefaultVoice = "fr_FR-siwis-medium"

	// DefaultBinary is resolved via PATH.
	DefaultBinary = "piper"
)

// Config holds synthesizer configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Voice is a bare model name resolved by the engine itself, or,
	// when VoicesDir is set, the stem of a local .onnx file.
	Voice string

	// VoicesDir is an optional directory of local voice model files.
	VoicesDir string

	// Binary is the synthesis executable.
	Binary string

	Logger *slog.Logger
}

// Option is a functional option for configuring synthesizers.
type Option func(*Config)

// WithVoice sets the voice model identifier.
func WithVoice(voice string) Option {
	return func(c *Config) { c.Voice = voice }
}

// WithVoicesDir sets the local voice model directory.
func WithVoicesDir(dir string) Option {
	return func(c *Config) { c.VoicesDir = dir }
}

// WithBinary overrides the synthesis executable.
func WithBinary(path string) Option {
	return func(c *Config) { c.Binary = path }
}

// WithLogger sets the structured logger for the synthesizer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Voice:  DefaultVoice,
		Binary: DefaultBinary,
		Logger: slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Voice == "" {
		return ErrNoVoice
	}
	return nil
}
