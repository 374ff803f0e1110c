package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultFilename = "audio.wav"

// Groq implements Transcriber against Groq's Whisper endpoint.
// Works with any OpenAI-compatible /audio/transcriptions API.
type Groq struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewGroq creates a new Groq transcriber.
func NewGroq(opts ...Option) (*Groq, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Groq{
		config: cfg,
		http:   client,
		logger: cfg.Logger.With("component", "stt.groq"),
	}, nil
}

// transcriptionResponse is the verbose_json response shape.
type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe sends audio to the provider and returns the transcription.
func (g *Groq) Transcribe(ctx context.Context, audio []byte, filename string) (*Transcription, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}
	if filename == "" {
		filename = defaultFilename
	}

	start := time.Now()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("stt: create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("stt: write audio: %w", err)
	}

	fields := map[string]string{
		"model":           g.config.Model,
		"language":        g.config.Language,
		"response_format": "verbose_json",
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("stt: write field %s: %w", name, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("stt: close form: %w", err)
	}

	url := strings.TrimSuffix(g.config.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("stt: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stt: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, g.parseError(resp)
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("stt: decode response: %w", err)
	}

	language := result.Language
	if language == "" {
		language = DefaultLanguage
	}

	text := strings.TrimSpace(result.Text)

	g.logger.Debug("transcribed audio",
		"bytes", len(audio),
		"chars", len(text),
		"language", language,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &Transcription{Text: text, Language: language}, nil
}

// parseError extracts an APIError from a non-200 response.
func (g *Groq) parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &apiResp); err == nil && apiResp.Error.Message != "" {
		message = apiResp.Error.Message
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
