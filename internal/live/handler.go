package live

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

const defaultReconnect = 5 * time.Second

// HandlerOptions configure a Handler.
type HandlerOptions struct {
	// AllowedOrigins lists browser origins such as "https://jobs.example.com".
	// Empty allows any origin.
	AllowedOrigins []string
	// ReconnectAfter is advertised to clients in the hello event.
	ReconnectAfter time.Duration
	Logger         *slog.Logger
}

// Handler serves the live channel over WebSocket.
type Handler struct {
	hub       *Hub
	origins   []string
	reconnect time.Duration
	logger    *slog.Logger
}

// NewHandler creates a Handler that registers connections on hub.
func NewHandler(hub *Hub, opts HandlerOptions) *Handler {
	reconnect := opts.ReconnectAfter
	if reconnect <= 0 {
		reconnect = defaultReconnect
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, strings.ToLower(o))
		}
	}
	return &Handler{
		hub:       hub,
		origins:   origins,
		reconnect: reconnect,
		logger:    logger.With("component", "live_handler"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Server{Handshake: h.handshake, Handler: h.serve}.ServeHTTP(w, r)
}

func (h *Handler) handshake(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	cfg.Origin = origin
	if origin == nil || len(h.origins) == 0 {
		return nil
	}
	got := strings.ToLower(origin.Scheme + "://" + origin.Host)
	for _, allowed := range h.origins {
		if got == allowed {
			return nil
		}
	}
	return fmt.Errorf("origin %q not allowed", got)
}

// inbound is a message sent by a client.
type inbound struct {
	Type   EventType `json:"type"`
	UserID userRef   `json:"userId"`
}

// userRef accepts a user id sent either as a JSON number or a string.
type userRef int64

func (u *userRef) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*u = 0
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("user id %q: %w", raw, err)
	}
	*u = userRef(id)
	return nil
}

func (h *Handler) serve(ws *websocket.Conn) {
	client := h.hub.Register()
	logger := h.logger.With("client_id", client.ID)
	logger.Debug("live client connected")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range client.Events() {
			if err := websocket.JSON.Send(ws, ev); err != nil {
				logger.Debug("live send failed", "error", err)
				_ = ws.Close()
				return
			}
		}
	}()

	h.hub.Send(client, Event{Type: EventHello, ReconnectMS: h.reconnect.Milliseconds()})

	for {
		var msg inbound
		if err := websocket.JSON.Receive(ws, &msg); err != nil {
			if isDecodeError(err) {
				logger.Debug("ignoring malformed live message", "error", err)
				continue
			}
			break
		}
		if msg.Type == EventAuth && msg.UserID > 0 {
			h.hub.Bind(client, int64(msg.UserID))
			h.hub.Send(client, Event{Type: EventAuthOK, UserID: int64(msg.UserID)})
			logger.Debug("live client authenticated", "user_id", int64(msg.UserID))
		}
	}

	h.hub.Unregister(client)
	wg.Wait()
	logger.Debug("live client disconnected", "user_id", client.UserID())
}
