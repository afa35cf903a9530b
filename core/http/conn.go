package http

import (
	"errors"
	"net"
)

// ErrAlreadyResponded is returned when a handler responds more than once.
var ErrAlreadyResponded = errors.New("response already written")

// Conn is the connection handle passed to handlers. It is only valid for the
// duration of the handler call; the server closes the socket afterwards.
type Conn struct {
	id        string
	conn      net.Conn
	responded bool
}

// NewConn wraps an accepted connection.
func NewConn(id string, conn net.Conn) *Conn {
	return &Conn{id: id, conn: conn}
}

// ID identifies the connection in logs.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Respond writes a status line, Content-Length and body.
func (c *Conn) Respond(status, body string) error {
	if c.responded {
		return ErrAlreadyResponded
	}
	c.responded = true
	return WriteResponse(c.conn, status, body)
}

// Responded reports whether Respond has been called.
func (c *Conn) Responded() bool {
	return c.responded
}
