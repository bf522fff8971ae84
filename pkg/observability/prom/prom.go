// Package prom implements the observability hooks with Prometheus metrics.
//
// trisieve is a batch tool rather than a server, so metrics are not scraped:
// they are written once at exit in the text exposition format, ready for the
// node_exporter textfile collector.
//
//	m := prom.New()
//	observability.SetFilterHooks(m)
//	observability.SetCacheHooks(m)
//	defer m.WriteTextfile("/var/lib/node_exporter/trisieve.prom")
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/trisieve/pkg/observability"
)

// Metrics holds the collectors and their registry. It implements both
// [observability.FilterHooks] and [observability.CacheHooks].
type Metrics struct {
	Registry *prometheus.Registry

	graphsRead      prometheus.Counter
	graphsAccepted  prometheus.Counter
	graphsRejected  *prometheus.CounterVec
	evalDuration    *prometheus.HistogramVec
	streamDuration  prometheus.Histogram
	streamsTotal    *prometheus.CounterVec
	lastSuccess     prometheus.Gauge
	cacheRequests   *prometheus.CounterVec
	cacheWriteBytes *prometheus.CounterVec
}

// New registers the trisieve collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		graphsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "trisieve_graphs_read_total",
			Help: "Graphs evaluated by the stream filter",
		}),
		graphsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "trisieve_graphs_accepted_total",
			Help: "Graphs that satisfied every predicate",
		}),
		graphsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trisieve_graphs_rejected_total",
			Help: "Graphs rejected, by first failing predicate",
		}, []string{"predicate"}),
		evalDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trisieve_graph_eval_duration_seconds",
			Help:    "Predicate evaluation time per graph, by order",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12), // 100ns to ~0.4s
		}, []string{"order"}),
		streamDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trisieve_stream_duration_seconds",
			Help:    "Wall time of a complete filter run",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		streamsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trisieve_streams_total",
			Help: "Filter runs, by result",
		}, []string{"result"}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "trisieve_last_success_timestamp_seconds",
			Help: "Unix time of the last filter run that reached end of stream",
		}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trisieve_cache_requests_total",
			Help: "Cache lookups, by key type and result",
		}, []string{"key_type", "result"}),
		cacheWriteBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trisieve_cache_write_bytes_total",
			Help: "Bytes written to the cache, by key type",
		}, []string{"key_type"}),
	}
}

// Register installs m as the global filter and cache hooks.
func (m *Metrics) Register() {
	observability.SetFilterHooks(m)
	observability.SetCacheHooks(m)
}

// WriteTextfile writes every registered metric to path, atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) OnStreamStart(context.Context, string, []string) {}

func (m *Metrics) OnGraphEvaluated(_ context.Context, order int, accepted bool, failed string, d time.Duration) {
	m.graphsRead.Inc()
	if accepted {
		m.graphsAccepted.Inc()
	} else {
		m.graphsRejected.WithLabelValues(failed).Inc()
	}
	m.evalDuration.WithLabelValues(orderLabel(order)).Observe(d.Seconds())
}

func (m *Metrics) OnStreamComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	m.streamDuration.Observe(d.Seconds())
	if err != nil {
		m.streamsTotal.WithLabelValues("error").Inc()
		return
	}
	m.streamsTotal.WithLabelValues("ok").Inc()
	m.lastSuccess.SetToCurrentTime()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

// orderLabel buckets graph orders so the label set stays small.
func orderLabel(n int) string {
	switch {
	case n <= 16:
		return "le16"
	case n <= 32:
		return "le32"
	case n <= 64:
		return "le64"
	case n <= 128:
		return "le128"
	default:
		return "gt128"
	}
}

var (
	_ observability.FilterHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)
