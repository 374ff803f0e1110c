// Package hub provides a thread-safe websocket broadcast hub using the
// idiomatic Go channel-based fan-out pattern. The backend uses it to
// stream completed conversation turns to dashboard subscribers.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub maintains the set of active subscribers and broadcasts events to them.
type Hub struct {
	logger *slog.Logger

	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// Guards clients for read-only access from outside the run loop.
	mu sync.RWMutex
}

// New creates a new Hub.
func New(name string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger.With("component", "hub", "hub", name),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("subscriber connected", "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("subscriber disconnected", "remaining", count)

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Subscriber too slow; drop it
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow subscriber")
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastJSON encodes v and broadcasts it to all subscribers.
// Events are dropped, never queued unbounded, when the hub is saturated.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast channel full, dropping event")
	}
	return nil
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
