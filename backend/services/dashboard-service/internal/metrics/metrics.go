// Package metrics exposes Prometheus instrumentation for the dashboard service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	statsRows         *prometheus.CounterVec
	trafficQueries    *prometheus.CounterVec
	trafficLogWrites  *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	liveClients       prometheus.Gauge
}

// New builds collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		statsRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_stats_rows_ingested_total",
			Help: "Rows committed by the stats webhook by stream.",
		}, []string{"stream"}),
		trafficQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_traffic_queries_total",
			Help: "Traffic analysis calls by outcome.",
		}, []string{"outcome"}),
		trafficLogWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_traffic_log_writes_total",
			Help: "Best-effort traffic log writes by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_report_notifications_total",
			Help: "Citizen report notifications by outcome.",
		}, []string{"outcome"}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_live_clients",
			Help: "Connected live dashboard websocket clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.statsRows,
		m.trafficQueries,
		m.trafficLogWrites,
		m.notifications,
		m.liveClients,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(took.Seconds())
}

// StatsIngested counts committed rows of one stream.
func (m *Metrics) StatsIngested(stream string) {
	if m == nil {
		return
	}
	m.statsRows.WithLabelValues(stream).Inc()
}

// TrafficQuery counts a traffic analysis outcome (ok, timeout, unavailable, unconfigured).
func (m *Metrics) TrafficQuery(outcome string) {
	if m == nil {
		return
	}
	m.trafficQueries.WithLabelValues(outcome).Inc()
}

// TrafficLogWrite counts the result of the best-effort log write.
func (m *Metrics) TrafficLogWrite(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.trafficLogWrites.WithLabelValues(result).Inc()
}

// Notification counts a report notification outcome (sent, failed, duplicate, disabled).
func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

// LiveClientConnected adjusts the live client gauge by delta.
func (m *Metrics) LiveClientConnected(delta int) {
	if m == nil {
		return
	}
	m.liveClients.Add(float64(delta))
}
