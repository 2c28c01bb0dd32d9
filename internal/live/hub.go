package live

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

const defaultSendBuffer = 16

// Client is one registered connection.
type Client struct {
	ID     string
	send   chan Event
	userID atomic.Int64
}

// Events yields the events queued for this client. The channel is closed when
// the client is unregistered.
func (c *Client) Events() <-chan Event {
	return c.send
}

// UserID returns the user bound by the auth handshake, or 0.
func (c *Client) UserID() int64 {
	return c.userID.Load()
}

// HubOptions configure a Hub.
type HubOptions struct {
	SendBuffer int
	Logger     *slog.Logger
}

// Hub is the in-process registry of live connections.
type Hub struct {
	sendBuffer int
	logger     *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub(opts HubOptions) *Hub {
	buf := opts.SendBuffer
	if buf <= 0 {
		buf = defaultSendBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sendBuffer: buf,
		logger:     logger.With("component", "live_hub"),
		clients:    make(map[*Client]struct{}),
	}
}

// Register adds a client. After Close the returned client's channel is
// already closed.
func (h *Hub) Register() *Client {
	c := &Client{ID: uuid.NewString(), send: make(chan Event, h.sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.send)
		return c
	}
	h.clients[c] = struct{}{}
	return c
}

// Unregister removes a client and closes its channel. It is safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	drainAndClose(c.send)
}

// Bind associates a client with a user.
func (h *Hub) Bind(c *Client, userID int64) {
	c.userID.Store(userID)
}

// Broadcast queues ev for every registered client without blocking. A client
// whose queue is full misses the event.
func (h *Hub) Broadcast(_ context.Context, ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("live event dropped for slow clients", "type", ev.Type, "dropped", dropped)
	}
	return nil
}

// Send queues ev for a single client if it is still registered.
func (h *Hub) Send(c *Client, ev Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unregisters every client and rejects later registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		drainAndClose(c.send)
	}
}

// drainAndClose discards buffered events before closing so receivers observe
// the closed channel immediately.
func drainAndClose(ch chan Event) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}

var _ Broadcaster = (*Hub)(nil)
