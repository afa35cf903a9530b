package core

import (
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/searchktools/serialhttp/core/http"
	"github.com/searchktools/serialhttp/core/observability"
	"github.com/searchktools/serialhttp/core/router"
)

// Outcome is how a single connection ended.
type Outcome int

const (
	// OutcomeHandled means a registered handler ran to completion.
	OutcomeHandled Outcome = iota
	// OutcomeNotFound means no route matched and a 404 was written.
	OutcomeNotFound
	// OutcomeBadRequest means the request line was malformed and a 400 was written.
	OutcomeBadRequest
	// OutcomeHandlerPanic means the handler panicked; the panic was recovered.
	OutcomeHandlerPanic
	// OutcomeReceiveError means the read failed and nothing was written.
	OutcomeReceiveError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "handled"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeHandlerPanic:
		return "handler_panic"
	case OutcomeReceiveError:
		return "receive_error"
	}
	return "unknown"
}

// Dispatcher routes parsed requests to handlers.
type Dispatcher struct {
	registry *router.Registry
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewDispatcher creates a dispatcher over reg. logger and metrics may be nil.
func NewDispatcher(reg *router.Registry, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: reg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Dispatch invokes the handler bound to (req.Method, req.Path), or writes the
// fixed 404 response when there is none. Exactly one of the two happens.
func (d *Dispatcher) Dispatch(c *http.Conn, req *http.Request) (outcome Outcome) {
	start := time.Now()
	label := "other"

	method, ok := router.ParseMethod(req.Method)
	if ok {
		label = string(method)
	}
	defer func() {
		d.metrics.RecordRequest(label, outcome.String(), time.Since(start))
	}()

	var h http.Handler
	if ok {
		h, ok = d.registry.Lookup(method, req.Path)
	}
	if !ok {
		if err := c.Respond(http.StatusNotFound, http.NotFoundBody); err != nil {
			d.logger.Warn("write not found response", "conn", c.ID(), "error", err)
		}
		return OutcomeNotFound
	}

	return d.invoke(h, c, req)
}

func (d *Dispatcher) invoke(h http.Handler, c *http.Conn, req *http.Request) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked",
				"conn", c.ID(),
				"method", req.Method,
				"path", req.Path,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			outcome = OutcomeHandlerPanic
		}
	}()

	h.Serve(c, req.Body)

	if !c.Responded() {
		d.logger.Warn("handler returned without responding",
			"conn", c.ID(),
			"method", req.Method,
			"path", req.Path,
		)
	}
	return OutcomeHandled
}
