package ws

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	sendBuffer    = 256
	writeDeadline = 10 * time.Second
)

// wsConn is the slice of *websocket.Conn the client needs. Tests swap in
// a fake.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one live connection. It starts anonymous and carries a
// subject only after a successful register. The buffered send channel
// keeps Deliver non-blocking; the writer pump owns all writes to the
// underlying socket.
type Client struct {
	conn wsConn
	send chan []byte

	mu      sync.Mutex
	subject string
	closed  bool
}

func newClient(conn wsConn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) Subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

func (c *Client) setSubject(s string) {
	c.mu.Lock()
	c.subject = s
	c.mu.Unlock()
}

// Deliver queues data for the writer pump. It never blocks: a full
// buffer or a closed connection reports false and the frame is dropped.
func (c *Client) Deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Kick sends the terminal replaced-session event and closes. Queued
// frames, the kick event included, are still flushed by the pump before
// the socket goes away.
func (c *Client) Kick(reason string) {
	if b, err := encodeEvent(EventForceDisconnect, failPayload{Message: reason}); err == nil {
		c.Deliver(b)
	}
	c.Close()
}

// Close is idempotent; it stops the writer pump by closing the send
// channel.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// writePump drains the send channel onto the socket. It exits when the
// channel closes or a write fails, then drops the transport.
func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
