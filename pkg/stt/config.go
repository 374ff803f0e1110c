package stt

import (
	"log/slog"
	"net/http"
	"time"
)

// Default provider settings. Groq hosts an OpenAI-compatible Whisper endpoint.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "whisper-large-v3"
	DefaultTimeout = 30 * time.Second
)

// Config holds transcriber configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Language is the hint passed to the provider. Whisper auto-detects
	// well; this only biases ambiguous clips.
	Language string

	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Option is a functional option for configuring the transcriber.
type Option func(*Config)

// WithAPIKey sets the API key for the provider.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithLanguage sets the language hint sent to the provider.
func WithLanguage(lang string) Option {
	return func(c *Config) { c.Language = lang }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) { c.HTTPClient = client }
}

// WithLogger sets the structured logger for the transcriber.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Model:    DefaultModel,
		Language: DefaultLanguage,
		Timeout:  DefaultTimeout,
		Logger:   slog.Default(),
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
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}
