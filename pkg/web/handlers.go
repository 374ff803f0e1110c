package web

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bumakids/buma/pkg/lesson"
	"github.com/bumakids/buma/pkg/store"
)

// DefaultUserID is used when the client does not identify itself.
const DefaultUserID = "default"

// TurnEvent is broadcast to websocket subscribers after each completed turn.
type TurnEvent struct {
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth reports service status.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "ok",
		"service":      ServiceName,
		"db_connected": s.pipe.Store().Connected(),
	})
}

// handleChat runs the conversation pipeline: audio in, audio out.
func (s *Server) handleChat(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no audio file provided",
		})
	}

	userID := c.FormValue("user_id", DefaultUserID)

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable audio file",
		})
	}
	audio, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable audio file",
		})
	}

	result, err := s.pipe.Run(c.UserContext(), audio, userID)
	if err != nil {
		s.logger.Error("pipeline failed", "user_id", userID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.events.BroadcastJSON(TurnEvent{
		UserID:    userID,
		Question:  result.Question,
		Response:  result.Reply,
		Language:  result.Language,
		ElapsedMs: result.Elapsed.Milliseconds(),
		Timestamp: time.Now().UTC(),
	})

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="response.wav"`)
	return c.Send(result.Audio)
}

// handleStats returns learning statistics for a user.
func (s *Server) handleStats(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	stats, err := s.pipe.Store().Stats(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "database not configured",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"user_id":             stats.UserID,
		"total_conversations": stats.TotalConversations,
		"languages":           stats.Languages,
	})
}

// teachRequest is the /teach request body.
type teachRequest struct {
	Category string `json:"category"`
	Count    *int   `json:"count"`
}

// handleTeach returns a short vocabulary lesson as audio.
func (s *Server) handleTeach(c *fiber.Ctx) error {
	var req teachRequest
	// Malformed or absent bodies fall back to the default lesson
	_ = c.BodyParser(&req)

	if req.Category == "" {
		req.Category = "animals"
	}
	count := 3
	if req.Count != nil {
		count = *req.Count
	}

	script, err := lesson.Build(req.Category, count)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := s.synth.Synthesize(c.UserContext(), script)
	if err != nil {
		s.logger.Error("lesson synthesis failed", "category", req.Category, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lesson.wav"`)
	return c.Send(result.Audio)
}
