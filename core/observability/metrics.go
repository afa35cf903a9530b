package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds metric naming options.
type Config struct {
	Namespace string
	Subsystem string
	Buckets   []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Namespace: "serialhttp",
		Subsystem: "server",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}
}

// Metrics tracks the server loop on a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	cfg              Config
	registry         *prometheus.Registry
	connsAccepted    prometheus.Counter
	acceptErrors     prometheus.Counter
	receiveErrors    prometheus.Counter
	requestsTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(cfg Config) *Metrics {
	def := DefaultConfig()
	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = def.Subsystem
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = def.Buckets
	}

	m := &Metrics{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		connsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted connections.",
		}),
		acceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "accept_errors_total",
			Help:      "Total number of failed accept calls.",
		}),
		receiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "receive_errors_total",
			Help:      "Total number of connections aborted by a failed read.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_total",
			Help:      "Total number of requests by method and dispatch outcome.",
		}, []string{"method", "outcome"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Time from parsed request to completed dispatch.",
			Buckets:   cfg.Buckets,
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.connsAccepted,
		m.acceptErrors,
		m.receiveErrors,
		m.requestsTotal,
		m.dispatchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ConnAccepted counts an accepted connection.
func (m *Metrics) ConnAccepted() {
	if m == nil {
		return
	}
	m.connsAccepted.Inc()
}

// AcceptError counts a failed accept.
func (m *Metrics) AcceptError() {
	if m == nil {
		return
	}
	m.acceptErrors.Inc()
}

// ReceiveError counts a connection dropped on read failure.
func (m *Metrics) ReceiveError() {
	if m == nil {
		return
	}
	m.receiveErrors.Inc()
}

// RecordRequest records one request outcome. Unsupported method tokens are
// reported as "other" to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
	m.dispatchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RegisterBufferPool exports receive buffer pool activity read from stats at
// scrape time. A Metrics serves a single pool; a second call fails.
func (m *Metrics) RegisterBufferPool(stats func() (gets, puts uint64)) error {
	if m == nil {
		return nil
	}

	gets := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: m.cfg.Namespace,
		Subsystem: m.cfg.Subsystem,
		Name:      "buffer_pool_gets_total",
		Help:      "Total number of receive buffers taken from the pool.",
	}, func() float64 {
		g, _ := stats()
		return float64(g)
	})
	puts := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: m.cfg.Namespace,
		Subsystem: m.cfg.Subsystem,
		Name:      "buffer_pool_puts_total",
		Help:      "Total number of receive buffers returned to the pool.",
	}, func() float64 {
		_, p := stats()
		return float64(p)
	})

	if err := m.registry.Register(gets); err != nil {
		return fmt.Errorf("register buffer pool gets: %w", err)
	}
	if err := m.registry.Register(puts); err != nil {
		m.registry.Unregister(gets)
		return fmt.Errorf("register buffer pool puts: %w", err)
	}
	return nil
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
