// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups HTTP, database and business collectors
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBOpenConns     prometheus.Gauge
	DBInUseConns    prometheus.Gauge
	DBIdleConns     prometheus.Gauge
	DBWaitCount     prometheus.Gauge

	reservationsCreated   *prometheus.CounterVec
	reservationsCancelled *prometheus.CounterVec
	capacityRejected      *prometheus.CounterVec
	webhookEvents         *prometheus.CounterVec
	cacheLookups          *prometheus.CounterVec
}

// New registers collectors on the default Prometheus registerer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors on reg
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool.",
			ConstLabels: constLabels,
		}),
		DBInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: constLabels,
		}),
		DBIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool.",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}),

		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations admitted, by source.",
			ConstLabels: constLabels,
		}, []string{"source"}),
		reservationsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_cancelled_total",
			Help:        "Reservations cancelled, by source.",
			ConstLabels: constLabels,
		}, []string{"source"}),
		capacityRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_rejections_total",
			Help:        "Admissions rejected because the slot was full, by source.",
			ConstLabels: constLabels,
		}, []string{"source"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "webhook_events_total",
			Help:        "Inbound webhook deliveries by channel and outcome.",
			ConstLabels: constLabels,
		}, []string{"channel", "result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_cache_lookups_total",
			Help:        "Capacity cache lookups by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCount,
		m.reservationsCreated,
		m.reservationsCancelled,
		m.capacityRejected,
		m.webhookEvents,
		m.cacheLookups,
	)

	return m
}

func (m *Metrics) ReservationCreated(source string) {
	m.reservationsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) ReservationCancelled(source string) {
	m.reservationsCancelled.WithLabelValues(source).Inc()
}

func (m *Metrics) CapacityRejected(source string) {
	m.capacityRejected.WithLabelValues(source).Inc()
}

func (m *Metrics) WebhookEvent(channel, result string) {
	m.webhookEvents.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Recorder business counters used by use cases
type Recorder interface {
	ReservationCreated(source string)
	ReservationCancelled(source string)
	CapacityRejected(source string)
	WebhookEvent(channel, result string)
	CacheLookup(hit bool)
}

// Nop satisfies Recorder without recording anything
type Nop struct{}

func (Nop) ReservationCreated(string) {}
func (Nop) ReservationCancelled(string) {}
func (Nop) CapacityRejected(string) {}
func (Nop) WebhookEvent(string, string) {}
func (Nop) CacheLookup(bool) {}
