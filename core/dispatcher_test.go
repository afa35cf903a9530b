package core

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchktools/serialhttp/core/http"
	"github.com/searchktools/serialhttp/core/observability"
	"github.com/searchktools/serialhttp/core/router"
)

// dispatchOver runs Dispatch on one end of a pipe and returns what the other
// end received.
func dispatchOver(t *testing.T, d *Dispatcher, req *http.Request) (Outcome, string) {
	t.Helper()

	server, client := net.Pipe()
	done := make(chan Outcome, 1)
	go func() {
		defer server.Close()
		done <- d.Dispatch(http.NewConn("test", server), req)
	}()

	data, err := io.ReadAll(client)
	require.NoError(t, err)
	return <-done, string(data)
}

func TestDispatchInvokesOnlyMatchingHandler(t *testing.T) {
	reg := router.NewRegistry(router.Options{})
	calls := map[string]int{}
	var gotBody string

	record := func(name string) http.HandlerFunc {
		return func(c *http.Conn, body string) {
			calls[name]++
			gotBody = body
			_ = c.Respond(http.StatusOK, name)
		}
	}
	require.NoError(t, reg.Register(router.GET, "/a", record("get-a")))
	require.NoError(t, reg.Register(router.POST, "/a", record("post-a")))
	require.NoError(t, reg.Register(router.GET, "/b", record("get-b")))

	d := NewDispatcher(reg, nil, observability.NewMetrics(observability.Config{}))

	outcome, resp := dispatchOver(t, d, &http.Request{Method: "post", Path: "/a", Body: "data"})
	assert.Equal(t, OutcomeHandled, outcome)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 6\r\n\r\npost-a", resp)
	assert.Equal(t, map[string]int{"post-a": 1}, calls)
	assert.Equal(t, "data", gotBody)
}

func TestDispatchNotFound(t *testing.T) {
	reg := router.NewRegistry(router.Options{})
	invoked := false
	require.NoError(t, reg.Register(router.GET, "/x", http.HandlerFunc(func(c *http.Conn, _ string) {
		invoked = true
		_ = c.Respond(http.StatusOK, "")
	})))

	d := NewDispatcher(reg, nil, nil)
	want := "HTTP/1.1 404 Not Found\r\nContent-Length: 37\r\n\r\nThe requested resource was not found."

	for _, req := range []*http.Request{
		{Method: "GET", Path: "/y"},
		{Method: "GET", Path: "/x/"},
		{Method: "GET", Path: "/X"},
		{Method: "GET", Path: "/x?y=1"},
		{Method: "POST", Path: "/x"},
		{Method: "PATCH", Path: "/x"},
		{Method: "garbage", Path: "foo"},
	} {
		outcome, resp := dispatchOver(t, d, req)
		assert.Equal(t, OutcomeNotFound, outcome, "%s %s", req.Method, req.Path)
		assert.Equal(t, want, resp)
	}
	assert.False(t, invoked)
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	reg := router.NewRegistry(router.Options{})
	require.NoError(t, reg.Register(router.GET, "/boom", http.HandlerFunc(func(*http.Conn, string) {
		panic("boom")
	})))

	d := NewDispatcher(reg, nil, nil)

	outcome, resp := dispatchOver(t, d, &http.Request{Method: "GET", Path: "/boom"})
	assert.Equal(t, OutcomeHandlerPanic, outcome)
	assert.Empty(t, resp, "no 404 after a handler ran")
}

func TestDispatchHandlerWithoutResponse(t *testing.T) {
	reg := router.NewRegistry(router.Options{})
	require.NoError(t, reg.Register(router.DELETE, "/quiet", http.HandlerFunc(func(*http.Conn, string) {})))

	d := NewDispatcher(reg, nil, nil)

	outcome, resp := dispatchOver(t, d, &http.Request{Method: "DELETE", Path: "/quiet"})
	assert.Equal(t, OutcomeHandled, outcome)
	assert.Empty(t, resp)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "handled", OutcomeHandled.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "bad_request", OutcomeBadRequest.String())
	assert.Equal(t, "handler_panic", OutcomeHandlerPanic.String())
	assert.Equal(t, "receive_error", OutcomeReceiveError.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
