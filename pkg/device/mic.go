package device

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

const (
	recordSampleRate = 16000
	recordFrameSize  = 1024
)

// Mic owns the microphone. It keeps a stream open for wake word
// frames and opens a second short-lived stream per question recording.
type Mic struct {
	wakeStream *portaudio.Stream
	wakeBuf    []int16
	logger     *slog.Logger
}

// NewMic initializes portaudio and opens the wake word stream with the
// detector's frame length and sample rate.
func NewMic(frameLength, sampleRate int, logger *slog.Logger) (*Mic, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("mic: initialize portaudio: %w", err)
	}

	buf := make([]int16, frameLength)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(buf), buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("mic: open wake stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("mic: start wake stream: %w", err)
	}

	return &Mic{
		wakeStream: stream,
		wakeBuf:    buf,
		logger:     logger.With("component", "mic"),
	}, nil
}

// ReadFrame blocks for the next wake word frame. The returned slice is
// reused between calls.
func (m *Mic) ReadFrame() ([]int16, error) {
	if err := m.wakeStream.Read(); err != nil {
		return nil, err
	}
	return m.wakeBuf, nil
}

// Record captures a fixed-duration question at 16kHz mono and writes
// it to a temporary WAV file, returning its path. The caller removes
// the file when done with it.
func (m *Mic) Record(ctx context.Context, duration time.Duration) (string, error) {
	buf := make([]int16, recordFrameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(recordSampleRate), len(buf), buf)
	if err != nil {
		return "", fmt.Errorf("mic: open record stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return "", fmt.Errorf("mic: start record stream: %w", err)
	}
	defer stream.Stop()

	total := int(float64(recordSampleRate) * duration.Seconds())
	samples := make([]int, 0, total)
	dotEvery := recordSampleRate / 2

	fmt.Print("🎤 Listening")
	for len(samples) < total {
		if err := ctx.Err(); err != nil {
			fmt.Println()
			return "", err
		}
		if err := stream.Read(); err != nil {
			fmt.Println()
			return "", fmt.Errorf("mic: read: %w", err)
		}
		before := len(samples)
		for _, s := range buf {
			samples = append(samples, int(s))
		}
		if before/dotEvery != len(samples)/dotEvery {
			fmt.Print(".")
		}
	}
	fmt.Println(" done")

	return writeWAV(samples[:total])
}

// Close releases the wake stream and shuts down portaudio.
func (m *Mic) Close() {
	if m.wakeStream != nil {
		m.wakeStream.Stop()
		m.wakeStream.Close()
	}
	portaudio.Terminate()
}

func writeWAV(samples []int) (string, error) {
	f, err := os.CreateTemp("", "buma-question-*.wav")
	if err != nil {
		return "", fmt.Errorf("mic: create temp file: %w", err)
	}

	enc := wav.NewEncoder(f, recordSampleRate, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: recordSampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	})
	if err == nil {
		err = enc.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("mic: write wav: %w", err)
	}
	return f.Name(), nil
}
