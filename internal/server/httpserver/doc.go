// Package httpserver provides the admin HTTP server for kvlite.
//
// The admin listener is separate from the Redis listener and serves
// read-only operational endpoints using stdlib net/http:
//
//   - GET /health: liveness
//   - GET /ready: 200 while the Redis listener accepts connections, else 503
//   - GET /version: build information
//   - GET /metrics: Prometheus exposition
//
// Every request passes through Recover, RequestID, RateLimit and Access,
// in that order.
package httpserver
