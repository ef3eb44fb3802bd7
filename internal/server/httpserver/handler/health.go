package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/kvlite-go/internal/infra/buildinfo"
)

// CodeNotReady is returned by /ready while the Redis listener is down.
const CodeNotReady = "NOT_READY"

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleReady(w http.ResponseWriter, _ *http.Request) {
	if h.ready != nil && !h.ready() {
		h.writeError(w, http.StatusServiceUnavailable, CodeNotReady, "redis listener is not accepting connections")
		return
	}
	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, buildinfo.Get())
}
