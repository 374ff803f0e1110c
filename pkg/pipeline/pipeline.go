// Package pipeline sequences one BUMA conversation turn on the backend:
// transcribe, fetch context, generate, persist, synthesize.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bumakids/buma/pkg/responder"
	"github.com/bumakids/buma/pkg/store"
	"github.com/bumakids/buma/pkg/stt"
	"github.com/bumakids/buma/pkg/tts"
)

// historyLimit is the number of recent turns handed to the responder.
const historyLimit = 4

// Result is one completed conversation turn.
type Result struct {
	// Audio is the synthesized reply, WAV bytes.
	Audio []byte

	// Question is the transcribed user text.
	Question string

	// Reply is BUMA's text reply.
	Reply string

	// Language is the detected language of the question.
	Language string

	// Elapsed is the total pipeline wall-clock time.
	Elapsed time.Duration
}

// Pipeline runs the conversation sequence with explicitly injected
// collaborators. All work within a run is sequential and blocking.
type Pipeline struct {
	transcriber stt.Transcriber
	responder   responder.Responder
	synthesizer tts.Synthesizer
	store       store.Store
	logger      *slog.Logger
}

// New creates a pipeline. store may be a Noop store but never nil.
func New(
	transcriber stt.Transcriber,
	resp responder.Responder,
	synthesizer tts.Synthesizer,
	st store.Store,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		transcriber: transcriber,
		responder:   resp,
		synthesizer: synthesizer,
		store:       st,
		logger:      logger.With("component", "pipeline"),
	}
}

// Run executes one conversation turn: audio in, audio out.
//
// Transcription, generation and synthesis failures abort the run. Store
// reads degrade to an empty history and store writes are best-effort;
// neither aborts a turn that the speech stages could complete.
func (p *Pipeline) Run(ctx context.Context, audio []byte, userID string) (*Result, error) {
	start := time.Now()
	logger := p.logger.With("user_id", userID)

	transcript, err := p.transcriber.Transcribe(ctx, audio, "")
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	logger.Info("transcribed question",
		"language", transcript.Language,
		"text", transcript.Text,
	)

	history := p.history(ctx, userID, logger)

	reply, err := p.responder.Respond(ctx, transcript.Text, history)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	logger.Info("generated reply", "text", reply)

	turn := store.Turn{
		UserID:    userID,
		Question:  transcript.Text,
		Response:  reply,
		Language:  transcript.Language,
		Timestamp: time.Now().UTC(),
	}
	if err := p.store.SaveTurn(ctx, turn); err != nil {
		// Persistence is best-effort: the child still gets an answer.
		logger.Warn("failed to save turn", "err", err)
	}

	synthesized, err := p.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	elapsed := time.Since(start)
	logger.Info("turn complete",
		"elapsed", elapsed.Round(10*time.Millisecond),
		"audio_bytes", len(synthesized.Audio),
	)

	return &Result{
		Audio:    synthesized.Audio,
		Question: transcript.Text,
		Reply:    reply,
		Language: transcript.Language,
		Elapsed:  elapsed,
	}, nil
}

// history fetches recent turns for context. A store failure degrades to
// a stateless exchange rather than failing the request.
func (p *Pipeline) history(ctx context.Context, userID string, logger *slog.Logger) []responder.Turn {
	turns, err := p.store.RecentTurns(ctx, userID, historyLimit)
	if err != nil {
		logger.Warn("failed to load history, continuing without context", "err", err)
		return nil
	}

	history := make([]responder.Turn, 0, len(turns))
	for _, t := range turns {
		history = append(history, responder.Turn{
			Question: t.Question,
			Response: t.Response,
		})
	}
	return history
}

// Store exposes the configured store for the stats endpoint.
func (p *Pipeline) Store() store.Store {
	return p.store
}
