package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cashflow"

// Metrics - счетчики сервиса, регистрируются в собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	transfers        *prometheus.CounterVec
	transferDuration prometheus.Histogram
	authEvents       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Transfers by outcome.",
			},
			[]string{"result"},
		),
		transferDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Duration of transfer calls including the transaction.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication events by type and outcome.",
			},
			[]string{"event", "result"},
		),
	}

	m.registry.MustRegister(m.transfers, m.transferDuration, m.authEvents)

	return m
}

// ObserveTransfer - result это Kind ошибки или "ok"
func (m *Metrics) ObserveTransfer(result string, took time.Duration) {
	m.transfers.WithLabelValues(result).Inc()
	m.transferDuration.Observe(took.Seconds())
}

func (m *Metrics) ObserveAuth(event, result string) {
	m.authEvents.WithLabelValues(event, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
