// Package metrics exposes Prometheus counters for the server. Each
// server owns its own registry so tests can build instances freely.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	UsersRegistered prometheus.Counter
	Logins          prometheus.Counter
	MessagesStored  prometheus.Counter
	ProductsStored  prometheus.Counter
	Broadcasts      prometheus.Counter
	Connections     prometheus.Gauge
	ProcessRSS      prometheus.Gauge
	ProcessCPU      prometheus.Gauge
	Goroutines      prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "plaza_users_registered_total",
			Help: "Total number of accounts created",
		}),
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "plaza_logins_total",
			Help: "Total number of successful logins",
		}),
		MessagesStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "plaza_messages_stored_total",
			Help: "Total number of chat messages persisted",
		}),
		ProductsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "plaza_products_stored_total",
			Help: "Total number of products persisted",
		}),
		Broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Name: "plaza_broadcasts_total",
			Help: "Total number of snapshot broadcasts fanned out",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plaza_ws_connections",
			Help: "Currently registered realtime connections",
		}),
		ProcessRSS: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plaza_process_resident_memory_bytes",
			Help: "Resident memory of this worker process",
		}),
		ProcessCPU: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plaza_process_cpu_percent",
			Help: "CPU usage of this worker process",
		}),
		Goroutines: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plaza_goroutines",
			Help: "Number of live goroutines",
		}),
	}
}

// Handler serves this instance's registry on /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
