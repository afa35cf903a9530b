package router

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/searchktools/serialhttp/core/http"
)

// DefaultMaxPathLen is the longest path a route may be registered under.
const DefaultMaxPathLen = 99

var (
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrPathTooLong       = errors.New("path too long")
	ErrCapacityExceeded  = errors.New("route capacity exceeded")
	ErrSealed            = errors.New("registry sealed")
	ErrNilHandler        = errors.New("nil handler")
)

// Options configures a Registry.
type Options struct {
	// Capacity caps the routes per method. Zero means unbounded.
	Capacity int
	// MaxPathLen caps the length of a registered path. Zero means DefaultMaxPathLen.
	MaxPathLen int
}

// Route binds a path to its handler. Routes never change once registered.
type Route struct {
	Path    string
	Handler http.Handler
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	Method Method
	Path   string
}

// Registry maps (method, path) to handlers with exact, case-sensitive path
// matching. Each method has its own append-only bucket scanned in
// registration order, so the first registration of a duplicate path wins.
//
// Register is only valid before Seal. A sealed registry is read-only and safe
// for concurrent Lookup.
type Registry struct {
	buckets    [len(Methods)][]Route
	capacity   int
	maxPathLen int
	sealed     atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.MaxPathLen <= 0 {
		opts.MaxPathLen = DefaultMaxPathLen
	}
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}

	return &Registry{
		capacity:   opts.Capacity,
		maxPathLen: opts.MaxPathLen,
	}
}

// Register appends a route to the bucket for method.
func (r *Registry) Register(method Method, path string, handler http.Handler) error {
	if r.sealed.Load() {
		return fmt.Errorf("register %s %s: %w", method, path, ErrSealed)
	}

	idx := method.index()
	if idx < 0 {
		return fmt.Errorf("register %q: %w", method, ErrUnsupportedMethod)
	}
	if handler == nil {
		return fmt.Errorf("register %s %s: %w", method, path, ErrNilHandler)
	}
	if len(path) > r.maxPathLen {
		return fmt.Errorf("register %s: %w (%d > %d bytes)", method, ErrPathTooLong, len(path), r.maxPathLen)
	}
	if r.capacity > 0 && len(r.buckets[idx]) >= r.capacity {
		return fmt.Errorf("register %s %s: %w (%d routes)", method, path, ErrCapacityExceeded, r.capacity)
	}

	r.buckets[idx] = append(r.buckets[idx], Route{Path: path, Handler: handler})
	return nil
}

// Lookup returns the handler of the first route in method's bucket whose path
// equals path byte for byte.
func (r *Registry) Lookup(method Method, path string) (http.Handler, bool) {
	idx := method.index()
	if idx < 0 {
		return nil, false
	}

	bucket := r.buckets[idx]
	for i := range bucket {
		if bucket[i].Path == path {
			return bucket[i].Handler, true
		}
	}

	return nil, false
}

// Seal freezes the registry. It is safe to call more than once.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Len returns the number of routes registered for method.
func (r *Registry) Len(method Method) int {
	idx := method.index()
	if idx < 0 {
		return 0
	}
	return len(r.buckets[idx])
}

// Routes lists every route grouped by method, in registration order.
func (r *Registry) Routes() []RouteInfo {
	var routes []RouteInfo
	for i, m := range Methods {
		for _, route := range r.buckets[i] {
			routes = append(routes, RouteInfo{Method: m, Path: route.Path})
		}
	}
	return routes
}
