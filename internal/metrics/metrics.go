package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the gateway's Prometheus surface, served on its own listener.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	refreshFailures *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		registry: registry,
		requests: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_http_requests_total",
				Help: "Requests handled by the proxy, by consumer and upstream instance",
			},
			[]string{"consumer", "namespace", "instance", "status_code"},
		),
		refreshFailures: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_refresh_failures_total",
				Help: "Background refresh failures, by kind",
			},
			[]string{"kind"},
		),
	}
}

// IncRequest counts one handled request. Health-endpoint hits are never
// counted; unauthenticated requests carry empty consumer/instance labels.
func (m *Metrics) IncRequest(consumer, namespace, instance string, code int) {
	m.requests.WithLabelValues(consumer, namespace, instance, strconv.Itoa(code)).Inc()
}

// IncRefreshFailure counts a failed background refresh: "tiers", "tenants"
// or "probe".
func (m *Metrics) IncRefreshFailure(kind string) {
	m.refreshFailures.WithLabelValues(kind).Inc()
}

// Handler serves the registry for the metrics listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
