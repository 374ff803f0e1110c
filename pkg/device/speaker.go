package device

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Speaker plays WAV files through the default output device.
type Speaker struct {
	logger *slog.Logger
}

// NewSpeaker builds a player. The logger may be nil.
func NewSpeaker(logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{logger: logger.With("component", "speaker")}
}

// Play decodes and plays the WAV file at path, blocking until playback
// finishes or the context is cancelled.
func (s *Speaker) Play(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("speaker: open audio: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("speaker: decode wav: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker: init: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
