package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bumakids/buma/internal/httpc"
)

// DefaultChatTimeout bounds one full transcribe/generate/synthesize
// round trip on the backend.
const DefaultChatTimeout = 20 * time.Second

// HTTPBackend talks to the buma backend over HTTP.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPBackend builds a backend client for the given base URL.
func NewHTTPBackend(baseURL string, logger *slog.Logger) *HTTPBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpc.NewClient(DefaultChatTimeout),
		logger:  logger.With("component", "backend"),
	}
}

// Ask uploads the question WAV and writes the reply audio to a
// temporary file, returning its path. The caller removes the file
// after playback.
func (b *HTTPBackend) Ask(ctx context.Context, audioPath, userID string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("backend: open recording: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "question.wav")
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	if err := mw.WriteField("user_id", userID); err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat", &body)
	if err != nil {
		return "", fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseChatError(resp)
	}

	out, err := os.CreateTemp("", "buma-response-*.wav")
	if err != nil {
		return "", fmt.Errorf("backend: create reply file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("backend: read reply: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("backend: write reply: %w", err)
	}

	b.logger.Debug("chat round trip complete",
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds())
	return out.Name(), nil
}

// Health pings GET /health.
func (b *HTTPBackend) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend: health returned %d", resp.StatusCode)
	}
	return nil
}

func parseChatError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("backend: chat failed (%d): %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("backend: chat failed (%d)", resp.StatusCode)
}
