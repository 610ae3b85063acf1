// Package metrics exposes Prometheus instruments for the TCP command
// surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the server-side instruments. A nil *Metrics is valid
// and turns every observation into a no-op.
type Metrics struct {
	ConnectionsTotal  prometheus.Counter
	ActiveConnections prometheus.Gauge
	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
}

// New registers the instruments on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ConnectionsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "stash_connections_total",
			Help: "Total number of accepted client connections.",
		}),
		ActiveConnections: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "stash_active_connections",
			Help: "Number of currently open client connections.",
		}),
		CommandsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "stash_commands_total",
			Help: "Total number of executed commands by kind.",
		}, []string{"kind"}),
		CommandDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stash_command_duration_seconds",
			Help:    "Command execution latency by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// ObserveCommand records one executed command.
func (m *Metrics) ObserveCommand(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(kind).Inc()
	m.CommandDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ConnOpened records an accepted connection.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.ConnectionsTotal.Inc()
	m.ActiveConnections.Inc()
}

// ConnClosed records a closed connection.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.ActiveConnections.Dec()
}
