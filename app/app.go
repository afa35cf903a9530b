package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/searchktools/serialhttp/config"
	"github.com/searchktools/serialhttp/core"
	"github.com/searchktools/serialhttp/core/observability"
	"github.com/searchktools/serialhttp/core/router"
)

const metricsShutdownTimeout = 5 * time.Second

// App wires configuration, logging, metrics and the engine together.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	engine  *core.Engine
}

// New creates an application instance. Routes are registered on Engine()
// before Run.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithBufferSize(cfg.BufferSize),
		core.WithReadTimeout(cfg.ReadTimeout),
		core.WithDeferAccept(cfg.DeferAccept),
		core.WithConcurrency(cfg.Concurrency),
		core.WithRouterOptions(router.Options{
			Capacity:   cfg.RouteCapacity,
			MaxPathLen: cfg.MaxPathLen,
		}),
	}
	if cfg.Metrics.Enabled {
		a.metrics = observability.NewMetrics(observability.Config{Namespace: cfg.Metrics.Namespace})
		opts = append(opts, core.WithMetrics(a.metrics))
	}

	a.engine = core.NewEngine(opts...)
	return a
}

// Engine returns the underlying engine for route registration
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Run serves until SIGINT/SIGTERM or ctx cancellation. Startup failures of
// either listener are returned.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, r := range a.engine.Registry().Routes() {
		a.logger.Debug("route registered", "method", string(r.Method), "path", r.Path)
	}
	a.logger.Info("starting server", "addr", a.cfg.Addr(), "env", a.cfg.Env)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.engine.Run(gctx, a.cfg.Addr())
	})

	if a.metrics != nil {
		g.Go(func() error {
			return a.serveMetrics(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info("server stopped")
	return nil
}

func (a *App) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("metrics listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
