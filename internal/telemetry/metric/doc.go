// Package metric provides Prometheus metrics for kvlite.
//
//   - prometheus.go: the registry, connection and command metrics, HTTP handler
//   - collector.go: a collector reporting keyspace size and lazy expirations
//
// Metrics are exposed at /metrics on the admin server.
package metric
