package http

// DefaultBufferSize bounds how many bytes of a request are ever read.
// Anything past it is dropped without error.
const DefaultBufferSize = 4096

// Request is the connection-scoped view of a parsed request.
// It is created per connection and discarded after dispatch.
type Request struct {
	// Method is the raw method token; case is folded at lookup time.
	Method string
	// Path is the raw request target, used verbatim as the lookup key.
	Path string
	// Body is everything after the first blank line, possibly truncated.
	Body string
}
