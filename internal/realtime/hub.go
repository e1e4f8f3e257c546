// Package realtime pushes journal updates to connected dashboards over
// WebSocket. Clients subscribe to a single account (via the account query
// parameter) or to everything, and receive JSON events whenever imports
// land or a snapshot is recomputed.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to clients.
const (
	EventTradesImported   = "trades_imported"
	EventSnapshotComputed = "snapshot_computed"
	EventAccountUpdated   = "account_updated"
)

// Event is the wire format for one push notification.
type Event struct {
	Type      string          `json:"type"`
	AccountID string          `json:"account_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// HubConfig configures hub timeouts.
type HubConfig struct {
	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// SendBuffer is the per-client outbound queue length. Clients that
	// fall further behind are disconnected.
	SendBuffer int
}

// DefaultHubConfig returns default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		SendBuffer:   64,
	}
}

// Hub fans events out to connected WebSocket clients.
type Hub struct {
	config HubConfig
	logger *log.Logger

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates a hub. A nil logger falls back to stdout.
func NewHub(config *HubConfig, logger *log.Logger) *Hub {
	cfg := DefaultHubConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[realtime] ", log.LstdFlags)
	}

	return &Hub{
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

type client struct {
	conn *websocket.Conn
	// accountID filters events; empty subscribes to all accounts.
	accountID string
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:      conn,
		accountID: r.URL.Query().Get("account"),
		send:      make(chan []byte, h.config.SendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Printf("client connected (account=%q, total=%d)", c.accountID, total)

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast sends an event to every client subscribed to its account.
// Slow clients are dropped rather than blocking the caller.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Printf("marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.accountID != "" && c.accountID != event.AccountID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Printf("client lagging, dropping (account=%q)", c.accountID)
			go h.remove(c)
		}
	}
}

// BroadcastPayload marshals payload and broadcasts it under the given type.
func (h *Hub) BroadcastPayload(eventType, accountID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("marshal payload: %v", err)
		return
	}
	h.Broadcast(Event{Type: eventType, AccountID: accountID, Payload: data})
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects all clients.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if ok {
		c.close()
	}
}

// writePump drains the send queue to the socket and keeps the connection
// alive with pings. Exits when the queue is closed.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(h.config.WriteTimeout))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists to notice disconnects and
// to service control frames.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}
