package device

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/bumakids/buma/pkg/wake"
)

// Loop ties the wake detector, recorder, backend and player into the
// client state machine.
type Loop struct {
	detector wake.Detector
	frames   FrameSource
	recorder Recorder
	backend  Backend
	player   Player

	userID    string
	recordFor time.Duration
	logger    *slog.Logger

	state         State
	conversations int

	// OnTransition, when set, is called with every state change.
	OnTransition func(State)
}

// NewLoop builds a client loop. The logger may be nil.
func NewLoop(detector wake.Detector, frames FrameSource, recorder Recorder, backend Backend, player Player, userID string, recordFor time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		detector:  detector,
		frames:    frames,
		recorder:  recorder,
		backend:   backend,
		player:    player,
		userID:    userID,
		recordFor: recordFor,
		logger:    logger.With("component", "loop"),
		state:     StateIdle,
	}
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.state
}

// Conversations returns how many wake words have been handled.
func (l *Loop) Conversations() int {
	return l.conversations
}

// Run listens for wake words until the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := l.frames.ReadFrame()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Warn("failed to read audio frame", "error", err)
			continue
		}

		triggered, err := l.detector.Process(frame)
		if err != nil {
			l.logger.Warn("wake detection failed", "error", err)
			continue
		}
		if !triggered {
			continue
		}

		l.conversations++
		l.logger.Info("wake word detected", "conversation", l.conversations)
		l.handleConversation(ctx)
	}
}

// handleConversation drives one record/send/play cycle. Any failure
// returns the loop to idle.
func (l *Loop) handleConversation(ctx context.Context) {
	defer l.transition(StateIdle)

	l.transition(StateRecording)
	questionPath, err := l.recorder.Record(ctx, l.recordFor)
	if err != nil {
		l.logger.Error("recording failed", "error", err)
		return
	}
	defer os.Remove(questionPath)

	l.transition(StateSending)
	replyPath, err := l.backend.Ask(ctx, questionPath, l.userID)
	if err != nil {
		l.logger.Error("could not reach backend", "error", err)
		return
	}
	defer os.Remove(replyPath)

	l.transition(StatePlaying)
	if err := l.player.Play(ctx, replyPath); err != nil {
		l.logger.Error("playback failed", "error", err)
	}
}

func (l *Loop) transition(next State) {
	if l.state == next {
		return
	}
	l.logger.Debug("state change", "from", l.state.String(), "to", next.String())
	l.state = next
	if l.OnTransition != nil {
		l.OnTransition(next)
	}
}
