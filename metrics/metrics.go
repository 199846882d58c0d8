package metrics

import (
	"context"
	"errors"
	"fmt"
	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
	"go.uber.org/multierr"
	"io"
	"net/http"
	"time"
	"zombiezen.com/go/log"
)

const shutdownTimeout = 5 * time.Second

type MetricsRegistry struct {
	scope    tally.Scope
	closer   io.Closer
	reporter promreporter.Reporter
	server   *http.Server
	ctx      context.Context
	httpPort int
}

func NewMetricRegistry(httpPort int) *MetricsRegistry {
	r := promreporter.NewReporter(promreporter.Options{})

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "grainstore",
		Tags:           map[string]string{},
		CachedReporter: r,
		Separator:      promreporter.DefaultSeparator,
	}, 1*time.Second)

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.HTTPHandler())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpPort),
		Handler: mux,
	}

	return &MetricsRegistry{
		scope:    scope,
		closer:   closer,
		reporter: r,
		server:   server,
		ctx:      context.Background(),
		httpPort: httpPort,
	}
}

// NewScopedMetricRegistry reports into an existing scope. The registry has
// no reporter of its own, so Serve fails.
func NewScopedMetricRegistry(scope tally.Scope) *MetricsRegistry {
	return &MetricsRegistry{
		scope: scope,
		ctx:   context.Background(),
	}
}

func (r *MetricsRegistry) Scope() tally.Scope {
	return r.scope
}

func (r *MetricsRegistry) TimeStorageOperation(operation string, stateType string, f func() error) error {
	tags := map[string]string{"operation": operation, "state_type": stateType}
	r.scope.Tagged(tags).Counter("storage_operation_count").Inc(1)
	tsw := r.scope.Tagged(tags).Timer("storage_operation_timer").Start()
	err := f()
	tsw.Stop()
	if err != nil {
		r.scope.Tagged(tags).Counter("storage_operation_errors").Inc(1)
	}
	return err
}

func (r *MetricsRegistry) CountStateRead(stateType string, found bool) {
	if found {
		r.scope.Tagged(map[string]string{"state_type": stateType}).Counter("state_read_hit").Inc(1)
	} else {
		r.scope.Tagged(map[string]string{"state_type": stateType}).Counter("state_read_miss").Inc(1)
	}
}

// Serve blocks until the endpoint fails or Close shuts it down.
func (r *MetricsRegistry) Serve() error {
	if r.server == nil {
		return fmt.Errorf("unable to serve metrics: registry has no reporter")
	}

	log.Infof(r.ctx, "Serving 0.0.0.0:%d/metrics", r.httpPort)
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("unable to serve metrics: %v", err)
	}
	return nil
}

// Close stops the metrics endpoint, if any, and flushes the root scope.
func (r *MetricsRegistry) Close() error {
	var err error
	if r.server != nil {
		ctx, cancel := context.WithTimeout(r.ctx, shutdownTimeout)
		defer cancel()
		err = r.server.Shutdown(ctx)
	}
	if r.closer != nil {
		err = multierr.Append(err, r.closer.Close())
	}
	return err
}
