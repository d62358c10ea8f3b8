// Package metrics exposes the tool's ambient prometheus counters, modeled
// on the teacher's pkg/sidecar/metrics.go: counters registered once,
// served over promhttp.Handler() when a listen address is configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

const namespace = "tracestats"

// Metrics holds every counter the pipeline updates.
type Metrics struct {
	TracesProcessed     prometheus.Counter
	TracesSkipped       prometheus.Counter
	LinesProcessed      prometheus.Counter
	ChunksQueued        prometheus.Counter
	ParserWarningsTotal *prometheus.CounterVec
}

// New constructs and registers every counter against registry.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		TracesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traces_processed_total",
			Help:      "Number of traces fully parsed and emitted.",
		}),
		TracesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traces_skipped_total",
			Help:      "Number of traces dropped due to the API-skip filter.",
		}),
		LinesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trace_lines_processed_total",
			Help:      "Number of trace lines classified across all traces.",
		}),
		ChunksQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_queued_total",
			Help:      "Number of line chunks handed from the feeder to the classifier.",
		}),
		ParserWarningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parser_warnings_total",
			Help:      "Number of soft parser warnings, by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.TracesProcessed,
		m.TracesSkipped,
		m.LinesProcessed,
		m.ChunksQueued,
		m.ParserWarningsTotal,
	)
	return m
}

// Serve starts an HTTP server exposing /metrics on addr. It is only
// called when --metrics-listen-address is non-empty; a run without the
// flag never binds a socket.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			klog.Errorf("metrics server stopped: %v", err)
		}
	}()
	klog.V(0).Infof("serving metrics on %s", addr)
}
