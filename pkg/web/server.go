// Package web exposes the buma backend over HTTP.
//
// Routes:
//
//	GET  /health          → service status
//	POST /chat            → audio in, audio out (main conversation loop)
//	GET  /stats/:user_id  → learning statistics
//	POST /teach           → structured vocabulary lesson (audio out)
//	GET  /ws/events       → live feed of completed turns (websocket)
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/bumakids/buma/pkg/hub"
	"github.com/bumakids/buma/pkg/pipeline"
	"github.com/bumakids/buma/pkg/tts"
)

// ServiceName identifies the backend in health responses.
const ServiceName = "buma-backend"

// Server is the buma backend HTTP server.
type Server struct {
	app    *fiber.App
	pipe   *pipeline.Pipeline
	synth  tts.Synthesizer
	events *hub.Hub
	logger *slog.Logger
}

// New creates the backend server around an assembled pipeline. The
// synthesizer is the same one the pipeline uses; /teach calls it
// directly since lessons skip transcription and generation.
func New(pipe *pipeline.Pipeline, synth tts.Synthesizer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pipe:   pipe,
		synth:  synth,
		events: hub.New("events", logger),
		logger: logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               ServiceName,
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024, // room for a few seconds of WAV
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/chat", s.handleChat)
	app.Get("/stats/:user_id", s.handleStats)
	app.Post("/teach", s.handleTeach)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Listen starts serving on addr and blocks.
func (s *Server) Listen(addr string) error {
	go s.events.Run()
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleEventsWS subscribes a dashboard client to the turn event feed.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.events, c).Run()
}
