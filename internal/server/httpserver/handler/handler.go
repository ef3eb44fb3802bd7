// Package handler provides the admin HTTP endpoints for kvlite.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
)

// Options configures a Handler.
type Options struct {
	// Ready reports whether the server can take traffic. Nil means always.
	Ready func() bool

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	Logger logger.Logger
}

// Handler routes admin requests.
type Handler struct {
	ready  func() bool
	logger logger.Logger
	mux    *http.ServeMux
}

// New creates a Handler and registers its routes.
func New(opts Options) *Handler {
	h := &Handler{
		ready:  opts.Ready,
		logger: opts.Logger,
		mux:    http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = logger.Nop()
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /version", h.handleVersion)
	if opts.Metrics != nil {
		h.mux.Handle("GET /metrics", opts.Metrics)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	h.write(w, status, NewResponse(getRequestID(w), data))
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("X-Error-Code", code)
	h.write(w, status, NewErrorResponse(getRequestID(w), code, message))
}

func (h *Handler) write(w http.ResponseWriter, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// getRequestID returns the ID the request middleware put on the response.
func getRequestID(w http.ResponseWriter) string {
	return w.Header().Get("X-Request-ID")
}
