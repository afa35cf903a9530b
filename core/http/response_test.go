package http

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResponse(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteResponse(&buf, StatusOK, "hi"))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", buf.String())
}

func TestWriteResponseNotFound(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteResponse(&buf, StatusNotFound, NotFoundBody))
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Length: 37\r\n\r\nThe requested resource was not found.", buf.String())
}

func TestWriteResponseEmptyBody(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteResponse(&buf, "204 No Content", ""))
	assert.Equal(t, "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n", buf.String())
}

// countingWriter records each Write call separately.
type countingWriter struct {
	writes [][]byte
	limit  int
	err    error
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, append([]byte(nil), p...))
	if w.err != nil {
		return 0, w.err
	}
	if w.limit > 0 && len(p) > w.limit {
		return w.limit, nil
	}
	return len(p), nil
}

func TestWriteResponseSingleWrite(t *testing.T) {
	w := &countingWriter{}

	require.NoError(t, WriteResponse(w, StatusOK, "hello world"))
	assert.Len(t, w.writes, 1)
}

func TestWriteResponseShortWrite(t *testing.T) {
	w := &countingWriter{limit: 4}

	err := WriteResponse(w, StatusOK, "hello world")
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Len(t, w.writes, 1, "partial writes are not retried")
}

func TestWriteResponseError(t *testing.T) {
	cause := errors.New("broken pipe")

	err := WriteResponse(&countingWriter{err: cause}, StatusOK, "x")
	assert.ErrorIs(t, err, cause)
}

func TestConnRespondOnce(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConn("conn-1", server)
	assert.Equal(t, "conn-1", c.ID())
	assert.False(t, c.Responded())

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(client)
		done <- data
	}()

	require.NoError(t, c.Respond(StatusOK, "hi"))
	assert.True(t, c.Responded())
	assert.ErrorIs(t, c.Respond(StatusOK, "again"), ErrAlreadyResponded)
	server.Close()

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", string(<-done))
}

func TestHandlerFunc(t *testing.T) {
	var got string
	var h Handler = HandlerFunc(func(c *Conn, body string) { got = body })

	h.Serve(nil, "payload")
	assert.Equal(t, "payload", got)
}
