package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/techify/backend/internal/models"
)

const writeTimeout = 10 * time.Second

// Client is one live connection's identity on the realtime channel. The
// connection id is ephemeral; a reconnect produces a new Client.
type Client struct {
	ID       string
	Role     models.Role
	Username string

	conn *websocket.Conn
	mu   sync.Mutex
	hook func(Event)
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, conn: conn}
}

// SetSendHook replaces the WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(Event)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send writes one event to the peer. Delivery is fire-and-forget: a write
// error means the event is simply undelivered.
func (c *Client) Send(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(ev)
		return
	}
	if c.conn == nil {
		return
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteJSON(ev)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
