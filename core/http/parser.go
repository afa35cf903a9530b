package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformedRequest is returned when the buffer holds fewer than two tokens.
	ErrMalformedRequest = errors.New("malformed request line")
	// ErrReceive wraps a failed read on the client connection.
	ErrReceive = errors.New("receive failed")
)

var headerTerminator = []byte("\r\n\r\n")

// ParseRequest extracts method, path and body from a raw request buffer.
//
// Method and path are the first two whitespace-separated tokens of the buffer.
// The body is whatever follows the first "\r\n\r\n"; it is empty when the
// separator is missing. Headers are never inspected and Content-Length is not
// checked against the bytes actually present. A NUL byte ends the buffer.
func ParseRequest(data []byte) (*Request, error) {
	if i := bytes.IndexByte(data, 0); i != -1 {
		data = data[:i]
	}

	method, rest := nextToken(data)
	if method == nil {
		return nil, ErrMalformedRequest
	}
	path, _ := nextToken(rest)
	if path == nil {
		return nil, ErrMalformedRequest
	}

	req := &Request{
		Method: string(method),
		Path:   string(path),
	}

	if idx := bytes.Index(data, headerTerminator); idx != -1 {
		req.Body = string(data[idx+len(headerTerminator):])
	}

	return req, nil
}

// ReadRequest performs exactly one Read into buf and parses the result.
// Requests larger than buf are truncated, not rejected.
func ReadRequest(r io.Reader, buf []byte) (*Request, error) {
	n, err := r.Read(buf)
	if n == 0 && err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReceive, err)
	}

	return ParseRequest(buf[:n])
}

// nextToken skips leading whitespace and returns the next token and the
// remainder after it. The token is nil when data holds only whitespace.
func nextToken(data []byte) (token, rest []byte) {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	if start == len(data) {
		return nil, nil
	}

	end := start
	for end < len(data) && !isSpace(data[end]) {
		end++
	}

	return data[start:end], data[end:]
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}
