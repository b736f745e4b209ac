// Package metrics exposes Prometheus instrumentation for the resolver caches,
// upstream calls and HTTP routes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the rest of the service reports into.
type Recorder interface {
	CacheHit(collection string)
	CacheMiss(collection string)
	CacheWriteFailure(collection string)
	ObserveUpstream(service, operation string, err error, d time.Duration)
	ObserveRequest(route, method string, status int, d time.Duration)
	SetDocuments(collection string, count int)
	DatasetRows(count int)
	Handler() http.Handler
}

// Provider is the Prometheus-backed Recorder. Each Provider owns its own
// registry so tests can build as many as they like.
type Provider struct {
	registry         *prometheus.Registry
	cacheLookups     *prometheus.CounterVec
	cacheWriteErrors *prometheus.CounterVec
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	documents        *prometheus.GaugeVec
	datasetRows      prometheus.Gauge
}

// New returns a Prometheus recorder, or a no-op one when disabled.
func New(enabled bool) Recorder {
	if !enabled {
		return Noop{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Provider{
		registry: reg,
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homerlab_cache_lookups_total",
			Help: "Resolver cache lookups by collection and result (hit, miss)",
		}, []string{"collection", "result"}),

		cacheWriteErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homerlab_cache_write_failures_total",
			Help: "Best-effort cache write-backs that failed",
		}, []string{"collection"}),

		upstreamCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homerlab_upstream_calls_total",
			Help: "Calls to external services by outcome",
		}, []string{"service", "operation", "outcome"}),

		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homerlab_upstream_duration_seconds",
			Help:    "External call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homerlab_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homerlab_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		documents: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "homerlab_documents",
			Help: "Documents per store collection",
		}, []string{"collection"}),

		datasetRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "homerlab_dataset_rows",
			Help: "Rows in the current home-run dataset snapshot",
		}),
	}
}

func (p *Provider) CacheHit(collection string) {
	p.cacheLookups.WithLabelValues(collection, "hit").Inc()
}

func (p *Provider) CacheMiss(collection string) {
	p.cacheLookups.WithLabelValues(collection, "miss").Inc()
}

func (p *Provider) CacheWriteFailure(collection string) {
	p.cacheWriteErrors.WithLabelValues(collection).Inc()
}

func (p *Provider) ObserveUpstream(service, operation string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.upstreamCalls.WithLabelValues(service, operation, outcome).Inc()
	p.upstreamDuration.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (p *Provider) ObserveRequest(route, method string, status int, d time.Duration) {
	p.requestsTotal.WithLabelValues(route, method, httpStatusBucket(status)).Inc()
	p.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (p *Provider) SetDocuments(collection string, count int) {
	p.documents.WithLabelValues(collection).Set(float64(count))
}

func (p *Provider) DatasetRows(count int) {
	p.datasetRows.Set(float64(count))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (p *Provider) Registry() *prometheus.Registry { return p.registry }

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop discards everything.
type Noop struct{}

func (Noop) CacheHit(string)                                      {}
func (Noop) CacheMiss(string)                                     {}
func (Noop) CacheWriteFailure(string)                             {}
func (Noop) ObserveUpstream(string, string, error, time.Duration) {}
func (Noop) ObserveRequest(string, string, int, time.Duration)    {}
func (Noop) SetDocuments(string, int)                             {}
func (Noop) DatasetRows(int)                                      {}
func (Noop) Handler() http.Handler                                { return http.NotFoundHandler() }
