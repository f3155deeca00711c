package bus

import "sync"

// LockedConn serializes writes to an underlying connection. A gorilla
// websocket connection tolerates only one concurrent writer, but a
// subscribed connection is written to by whichever goroutine happens to
// publish, so every raw conn must be wrapped in one of these before it
// is handed to Subscribe. Writers outside the bus (per-connection error
// acks) must go through the same wrapper.
type LockedConn struct {
	mu   sync.Mutex
	conn Conn
}

// NewLockedConn wraps a connection.
func NewLockedConn(conn Conn) *LockedConn {
	return &LockedConn{conn: conn}
}

func (c *LockedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *LockedConn) Close() error {
	return c.conn.Close()
}
