// Package metrics holds the prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecoapi"

// Metrics contains every collector exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	StoreCalls    *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
	StoreUp       prometheus.Gauge
	StoreTriples  prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Searches *prometheus.CounterVec
}

// New creates the collectors and registers them, with the Go runtime and
// process collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		StoreCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "calls_total",
				Help:      "Total number of triple store round trips",
			},
			[]string{"kind", "outcome"},
		),

		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "call_duration_seconds",
				Help:      "Triple store round trip duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		StoreUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_up",
				Help:      "Triple store reachability (0=down, 1=up)",
			},
		),

		StoreTriples: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_triples",
				Help:      "Number of triples in the default graph at the last check",
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "total",
				Help:      "Total number of searches by endpoint and strategy",
			},
			[]string{"endpoint", "strategy"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.StoreCalls,
		m.StoreDuration,
		m.StoreUp,
		m.StoreTriples,
		m.HTTPRequests,
		m.HTTPDuration,
		m.Searches,
	)
	return m
}

// Registry returns the underlying prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveStoreCall implements sparql.Observer
func (m *Metrics) ObserveStoreCall(kind, outcome string, d time.Duration) {
	m.StoreCalls.WithLabelValues(kind, outcome).Inc()
	m.StoreDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveSearch counts one answered search
func (m *Metrics) ObserveSearch(endpoint, strategy string) {
	m.Searches.WithLabelValues(endpoint, strategy).Inc()
}

// SetStoreStatus records the result of a store check. triples is ignored
// when the store is down.
func (m *Metrics) SetStoreStatus(up bool, triples int) {
	if !up {
		m.StoreUp.Set(0)
		return
	}
	m.StoreUp.Set(1)
	m.StoreTriples.Set(float64(triples))
}

// Middleware counts requests by chi route pattern so that path parameters
// do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
