package ws

import "sync"

// Writer is the write side of a websocket connection.
type Writer interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Conn serializes writes to a websocket connection, which allows at most one
// concurrent writer.
type Conn struct {
	mu sync.Mutex
	w  Writer
}

func NewConn(w Writer) *Conn {
	return &Conn{w: w}
}

func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.WriteJSON(v)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Close()
}
