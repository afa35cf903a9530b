package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"github.com/searchktools/serialhttp/core/bootstrap"
	"github.com/searchktools/serialhttp/core/http"
	"github.com/searchktools/serialhttp/core/observability"
	"github.com/searchktools/serialhttp/core/pools"
	"github.com/searchktools/serialhttp/core/router"
)

// Engine owns the route registry and runs the accept loop.
//
// Routes are registered first; Serve seals the registry and from then on it is
// read-only. By default connections are served one at a time in accept order:
// while one is being read, parsed and dispatched, new connections wait in the
// OS backlog. There is no read timeout unless one is configured, so a silent
// client stalls the whole server.
type Engine struct {
	registry    *router.Registry
	dispatcher  *Dispatcher
	buffers     *pools.BytePool
	logger      *slog.Logger
	metrics     *observability.Metrics
	readTimeout time.Duration
	deferAccept time.Duration
	concurrency int
	newID       func() string

	routerOpts router.Options
	bufferSize int
}

// Option configures an engine
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithBufferSize sets the receive buffer size. Requests beyond it are truncated.
func WithBufferSize(size int) Option {
	return func(e *Engine) {
		e.bufferSize = size
	}
}

// WithReadTimeout bounds the single read of each connection. Zero disables it.
func WithReadTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.readTimeout = d
	}
}

// WithDeferAccept makes Run hold back connections until they send data or d
// passes. See bootstrap.WithDeferAccept.
func WithDeferAccept(d time.Duration) Option {
	return func(e *Engine) {
		e.deferAccept = d
	}
}

// WithConcurrency lets up to n connections be served at once, each on its own
// goroutine. n <= 1 keeps the serial loop.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithRouterOptions sets route capacity and maximum path length.
func WithRouterOptions(opts router.Options) Option {
	return func(e *Engine) {
		e.routerOpts = opts
	}
}

// NewEngine creates a new engine instance
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bufferSize:  http.DefaultBufferSize,
		concurrency: 1,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.bufferSize <= 0 {
		e.bufferSize = http.DefaultBufferSize
	}

	e.registry = router.NewRegistry(e.routerOpts)
	e.dispatcher = NewDispatcher(e.registry, e.logger, e.metrics)
	e.buffers = pools.NewBytePool(e.bufferSize)
	if err := e.metrics.RegisterBufferPool(e.buffers.Stats); err != nil {
		e.logger.Warn("buffer pool metrics disabled", "error", err)
	}

	return e
}

// Registry returns the route registry.
func (e *Engine) Registry() *router.Registry {
	return e.registry
}

// Handle registers handler for (method, path). It fails once serving has begun.
func (e *Engine) Handle(method router.Method, path string, handler http.Handler) error {
	return e.registry.Register(method, path, handler)
}

// GET registers a GET route
func (e *Engine) GET(path string, handler http.HandlerFunc) error {
	return e.Handle(router.GET, path, handler)
}

// POST registers a POST route
func (e *Engine) POST(path string, handler http.HandlerFunc) error {
	return e.Handle(router.POST, path, handler)
}

// PUT registers a PUT route
func (e *Engine) PUT(path string, handler http.HandlerFunc) error {
	return e.Handle(router.PUT, path, handler)
}

// DELETE registers a DELETE route
func (e *Engine) DELETE(path string, handler http.HandlerFunc) error {
	return e.Handle(router.DELETE, path, handler)
}

// Run listens on addr and serves until ctx is cancelled. Listener setup
// errors are returned as is; they are never retried.
func (e *Engine) Run(ctx context.Context, addr string) error {
	ln, err := bootstrap.InitAddr(ctx, addr, bootstrap.WithDeferAccept(e.deferAccept))
	if err != nil {
		return err
	}
	defer ln.Cleanup()

	e.logger.Info("server listening", "addr", ln.Addr().String(), "concurrency", e.concurrency)

	return e.Serve(ctx, ln)
}

// Serve seals the registry and accepts connections from ln until ctx is
// cancelled, in which case it closes ln and returns nil. Accept failures are
// logged and retried; if ln is closed by someone else Serve returns
// ErrServerClosed.
func (e *Engine) Serve(ctx context.Context, ln net.Listener) error {
	e.registry.Seal()

	if e.concurrency > 1 {
		ln = netutil.LimitListener(ln, e.concurrency)
	}

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = acceptRetryInitial
	retry.MaxInterval = acceptRetryMax
	retry.MaxElapsedTime = 0
	retry.Reset()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: %w", ErrServerClosed, err)
			}

			e.metrics.AcceptError()
			wait := retry.NextBackOff()
			e.logger.Error("accept failed", "error", err, "retry_in", wait)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
			continue
		}

		retry.Reset()
		e.metrics.ConnAccepted()

		if e.concurrency > 1 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e.ServeConn(conn)
			}()
			continue
		}

		e.ServeConn(conn)
	}
}

// ServeConn runs one connection through read, parse, dispatch and close.
// The connection is closed exactly once on every path.
func (e *Engine) ServeConn(conn net.Conn) Outcome {
	id := e.newID()
	defer func() {
		if err := conn.Close(); err != nil {
			e.logger.Debug("close connection", "conn", id, "error", err)
		}
	}()

	if e.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(e.readTimeout)); err != nil {
			e.logger.Debug("set read deadline", "conn", id, "error", err)
		}
	}

	buf := e.buffers.Get()
	req, err := http.ReadRequest(conn, *buf)
	e.buffers.Put(buf)

	switch {
	case errors.Is(err, http.ErrReceive):
		e.metrics.ReceiveError()
		e.logger.Warn("receive failed", "conn", id, "remote", remoteAddr(conn), "error", err)
		return OutcomeReceiveError
	case err != nil:
		e.metrics.RecordRequest("other", OutcomeBadRequest.String(), 0)
		e.logger.Debug("malformed request", "conn", id, "remote", remoteAddr(conn))
		if werr := http.WriteResponse(conn, http.StatusBadRequest, http.BadRequestBody); werr != nil {
			e.logger.Warn("write bad request response", "conn", id, "error", werr)
		}
		return OutcomeBadRequest
	}

	return e.dispatcher.Dispatch(http.NewConn(id, conn), req)
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
