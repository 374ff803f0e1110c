package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Groq implements Responder using a Groq-hosted Llama model through the
// OpenAI-compatible chat completions API.
type Groq struct {
	config *Config
	client openai.Client
	logger *slog.Logger
}

// NewGroq creates a new Groq responder.
func NewGroq(opts ...Option) (*Groq, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &Groq{
		config: cfg,
		client: client,
		logger: cfg.Logger.With("component", "responder.groq"),
	}, nil
}

// Respond returns BUMA's reply to userText.
//
// The quick-response table is consulted before any context assembly; on a
// hit the model is never called and history is ignored.
func (g *Groq) Respond(ctx context.Context, userText string, history []Turn) (string, error) {
	if reply, ok := QuickResponse(userText); ok {
		g.logger.Debug("quick response hit", "text", userText)
		return reply, nil
	}

	start := time.Now()
	messages := BuildMessages(userText, history)

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    params,
		Model:       openai.ChatModel(g.config.Model),
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
		TopP:        openai.Float(topP),
	})
	if err != nil {
		return "", fmt.Errorf("responder: chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	g.logger.Debug("generated reply",
		"history_turns", len(history),
		"chars", len(reply),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return reply, nil
}
