package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kvlite"

// Connection error kinds.
const (
	ErrKindDecode   = "decode"
	ErrKindProtocol = "protocol"
	ErrKindIO       = "io"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	ConnectionsAccepted prometheus.Counter
	ConnectionsActive   prometheus.Gauge
	ConnectionErrors    *prometheus.CounterVec
	CommandsTotal       *prometheus.CounterVec
}

// NewRegistry creates a registry with the Go runtime and process collectors
// plus the server metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Client connections accepted.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Client connections currently open.",
		}),
		ConnectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_errors_total",
			Help:      "Connections closed because of an error, by kind.",
		}, []string{"kind"}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command name.",
		}, []string{"command"}),
	}
	reg.MustRegister(r.ConnectionsAccepted, r.ConnectionsActive, r.ConnectionErrors, r.CommandsTotal)
	return r
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	r.ConnectionsAccepted.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	r.ConnectionsActive.Dec()
}

// ConnError records a connection torn down by an error of the given kind.
func (r *Registry) ConnError(kind string) {
	r.ConnectionErrors.WithLabelValues(kind).Inc()
}

// Command records one executed command.
func (r *Registry) Command(name string) {
	r.CommandsTotal.WithLabelValues(name).Inc()
}

// Register adds extra collectors, such as a KeyspaceCollector.
func (r *Registry) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := r.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
