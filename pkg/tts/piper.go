package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Piper implements Synthesizer by running the piper executable once per
// call. Text goes in on stdin, WAV bytes come out on stdout.
type Piper struct {
	config *Config
	logger *slog.Logger
}

// NewPiper creates a new Piper synthesizer.
func NewPiper(opts ...Option) (*Piper, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Piper{
		config: cfg,
		logger: cfg.Logger.With("component", "tts.piper"),
	}, nil
}

// command builds the piper invocation. The voice is a bare model name
// resolved by piper itself, or an explicit path under the voices dir.
func (p *Piper) command() []string {
	cmd := []string{p.config.Binary, "--output_file", "-"}
	if p.config.VoicesDir != "" {
		model := filepath.Join(p.config.VoicesDir, p.config.Voice+".onnx")
		return append(cmd, "--model", model)
	}
	return append(cmd, "--model", p.config.Voice)
}

// Synthesize converts text to WAV audio bytes.
//
// A non-zero exit status is returned as *ExitError carrying the status
// and captured stderr. There is no retry and no fallback voice.
func (p *Piper) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	argv := p.command()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("tts: run piper: %w", err)
	}

	latency := time.Since(start).Milliseconds()

	p.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", stdout.Len(),
		"latency_ms", latency,
		"voice", p.config.Voice,
	)

	return &AudioResult{
		Audio:     stdout.Bytes(),
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}
