// Package sse provides Server-Sent Events plumbing for the MCP transport.
package sse

import (
	"sync"

	"github.com/skillsenselab/data2csv/internal/logger"
)

// Client represents one connected SSE stream.
type Client struct {
	id     string
	events chan []byte
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{
		id:     id,
		events: make(chan []byte, 256),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel for receiving events.
func (c *Client) Events() <-chan []byte { return c.events }

// send delivers data to the client's event channel.
// Returns false if the channel is full (client is slow).
func (c *Client) send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		logger.Warn("SSE client channel full, dropping message", map[string]interface{}{
			"client_id": c.id,
		})
		return false
	}
}

// Hub tracks connected SSE clients and routes messages to them by ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// Unregister removes a client and closes its event channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.id]; ok && existing == c {
		delete(h.clients, c.id)
		close(c.events)
	}
}

// SendTo delivers data to the client with the given ID.
// Returns false if no such client is connected or its channel is full.
// The read lock is held across the send itself: Unregister closes the
// event channel under the write lock, so a delivery can never race a
// close. send never blocks, so holding the lock here is safe.
func (h *Hub) SendTo(id string, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	return c.send(data)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
