package http

import (
	"io"
	"strconv"
)

// Status lines written by the server itself. Every other status line is up
// to the registered handlers.
const (
	StatusOK         = "200 OK"
	StatusBadRequest = "400 Bad Request"
	StatusNotFound   = "404 Not Found"
)

// Bodies of the responses the server produces on its own.
const (
	BadRequestBody = "Invalid request format"
	NotFoundBody   = "The requested resource was not found."
)

// AppendResponse appends a complete response to b. The only header ever
// emitted is Content-Length.
func AppendResponse(b []byte, status, body string) []byte {
	b = append(b, "HTTP/1.1 "...)
	b = append(b, status...)
	b = append(b, "\r\nContent-Length: "...)
	b = strconv.AppendInt(b, int64(len(body)), 10)
	b = append(b, "\r\n\r\n"...)
	b = append(b, body...)
	return b
}

// WriteResponse formats a response and hands it to w in a single Write call.
// Partial writes are not retried; they surface as io.ErrShortWrite.
func WriteResponse(w io.Writer, status, body string) error {
	buf := AppendResponse(make([]byte, 0, 64+len(status)+len(body)), status, body)

	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n < len(buf) {
		return io.ErrShortWrite
	}
	return nil
}
