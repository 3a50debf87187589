package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the write side of one live connection. The registry holds Conn,
// not *websocket.Conn, so routing can be exercised against fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

const writeDeadline = 5 * time.Second

// wsConn wraps a gorilla conn with a write lock; gorilla allows at most one
// concurrent writer and frames for the same peer can come from the reader
// goroutines of several other connections.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
