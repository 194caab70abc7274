// Package metrics exposes the service's prometheus counters.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finboard"

// Outcomes recorded for mutations.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics owns a registry and the counters registered on it.
type Metrics struct {
	Registry      *prometheus.Registry
	mutations     *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	viewCache     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	exports       *prometheus.CounterVec
}

// New registers the counters plus the Go and process collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutation actions by action name and outcome.",
		}, []string{"action", "outcome"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Invalidation signals emitted.",
		}, []string{"signal"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_total",
			Help:      "View cache lookups by view and result.",
		}, []string{"view", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Account snapshot exports by backend and outcome.",
		}, []string{"backend", "outcome"}),
	}
	m.Registry.MustRegister(
		m.mutations,
		m.invalidations,
		m.viewCache,
		m.httpRequests,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// The recorders below accept a nil receiver so callers can run without metrics.

func (m *Metrics) Mutation(action, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) Invalidation(signal string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(signal).Inc()
}

func (m *Metrics) ViewCache(view string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.viewCache.WithLabelValues(view, result).Inc()
}

func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Export(backend, outcome string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(backend, outcome).Inc()
}
