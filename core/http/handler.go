package http

// Handler produces the response for a matched route. It must call
// Conn.Respond before returning; the server never writes on its behalf.
type Handler interface {
	Serve(c *Conn, body string)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(c *Conn, body string)

// Serve calls f(c, body).
func (f HandlerFunc) Serve(c *Conn, body string) {
	f(c, body)
}
