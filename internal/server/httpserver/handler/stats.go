package handler

import (
	"net/http"
	"time"
)

// handleStats handles GET /stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "store not configured")
		return
	}

	shards := h.stats.Stats()
	resp := StatsResponse{
		ShardCount: len(shards),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Shards:     shards,
	}
	for _, s := range shards {
		resp.TotalKeys += s.Keys
		resp.QueueDepth += s.QueueDepth
	}
	if h.conns != nil {
		resp.Connections = h.conns.ActiveConnections()
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}
