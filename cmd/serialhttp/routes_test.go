package main

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchktools/serialhttp/core"
)

func roundTrip(t *testing.T, e *core.Engine, raw string) string {
	t.Helper()

	server, client := net.Pipe()
	defer client.Close()
	go e.ServeConn(server)

	_, err := client.Write([]byte(raw))
	require.NoError(t, err)
	data, err := io.ReadAll(client)
	require.NoError(t, err)
	return string(data)
}

func TestDemoRoutes(t *testing.T) {
	e := core.NewEngine()
	require.NoError(t, registerDemoRoutes(e))

	tests := []struct {
		raw  string
		want string
	}{
		{"GET /hello HTTP/1.1\r\n\r\n", "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi"},
		{"GET /health HTTP/1.1\r\n\r\n", "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"},
		{"POST /echo HTTP/1.1\r\n\r\nabc", "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\nabc"},
		{"put /echo HTTP/1.1\r\n\r\nxyz", "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\nxyz"},
		{"DELETE /hello HTTP/1.1\r\n\r\n", "HTTP/1.1 200 OK\r\nContent-Length: 7\r\n\r\ndeleted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundTrip(t, e, tt.raw))
	}
}

func TestRoutesCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"routes"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "GET     /hello\nGET     /health\nPOST    /echo\nPUT     /echo\nDELETE  /hello\n", out.String())
}
