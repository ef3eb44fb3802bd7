package httpserver

import (
	"net/http"

	"github.com/yndnr/kvlite-go/internal/server/httpserver/handler"
	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Ready reports whether the Redis listener is serving. Nil means always ready.
	Ready func() bool

	// Metrics serves GET /metrics. Nil leaves the route unregistered.
	Metrics http.Handler

	// Logger for request logging. Nil discards.
	Logger logger.Logger

	// RateLimit is the per-IP request rate (requests/second). Zero disables it.
	RateLimit int
}

// NewRouter builds the admin handler with its middleware chain.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	h := handler.New(handler.Options{
		Ready:   cfg.Ready,
		Metrics: cfg.Metrics,
		Logger:  log,
	})

	return Chain(h,
		Recover(log),
		RequestID(),
		RateLimit(cfg.RateLimit),
		Access(log),
	)
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit: 100,
	}
}
