package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var _ domain.Notifier = (*RealtimeHub)(nil)

const writeWait = 10 * time.Second

// Client is one open socket of a user. Writes are serialized because
// gorilla connections allow a single concurrent writer.
type Client struct {
	UserID string

	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Ping sends a control ping so proxies keep the connection open.
func (c *Client) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// RealtimeHub fans notifications out to every socket a user has open.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*Client]struct{})}
}

func (h *RealtimeHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

func (h *RealtimeHub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()

	_ = c.conn.Close()
}

// Connected reports how many sockets the user has open.
func (h *RealtimeHub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify never fails for offline users; broken sockets are dropped.
func (h *RealtimeHub) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[n.UserID]))
	for c := range h.clients[n.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, payload); err != nil {
			log.Printf("[REALTIME] Dropping socket of user %s: %v", n.UserID, err)
			h.Unregister(c)
		}
	}
	return nil
}
