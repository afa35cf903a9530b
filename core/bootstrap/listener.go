// Package bootstrap owns the listening socket the server loop accepts from.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

// ErrInit wraps every startup failure: socket creation, option setup, bind
// and listen. Startup errors are fatal and never retried.
var ErrInit = errors.New("listener init failed")

// Listener is the listening socket handed to the server loop.
type Listener struct {
	ln        net.Listener
	closeOnce sync.Once
	closeErr  error
}

type listenOptions struct {
	deferAccept time.Duration
}

// Option configures the listening socket.
type Option func(*listenOptions)

// WithDeferAccept keeps connections that have not sent anything yet out of
// Accept for up to d (TCP_DEFER_ACCEPT, rounded up to whole seconds), so a
// silent client reaches the serial loop only once d has passed. Only Linux
// honours it; zero disables it.
func WithDeferAccept(d time.Duration) Option {
	return func(o *listenOptions) {
		o.deferAccept = d
	}
}

// Init listens on the given TCP port on all interfaces.
func Init(port int, opts ...Option) (*Listener, error) {
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %d", ErrInit, port)
	}
	return InitAddr(context.Background(), net.JoinHostPort("", strconv.Itoa(port)), opts...)
}

// InitAddr listens on addr ("host:port").
func InitAddr(ctx context.Context, addr string, opts ...Option) (*Listener, error) {
	var o listenOptions
	for _, opt := range opts {
		opt(&o)
	}

	var lc net.ListenConfig
	if o.deferAccept > 0 {
		lc.Control = controlDeferAccept(o.deferAccept)
	}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	return &Listener{ln: ln}, nil
}

// Accept waits for the next connection.
func (l *Listener) Accept() (net.Conn, error) {
	return l.ln.Accept()
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close closes the socket. Further calls return the first result.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.ln.Close()
	})
	return l.closeErr
}

// Cleanup releases the socket, ignoring errors from an already closed listener.
func (l *Listener) Cleanup() {
	_ = l.Close()
}
