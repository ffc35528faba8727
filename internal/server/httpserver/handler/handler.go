package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

// StatsSource reports per-shard statistics. *shard.Store implements it.
type StatsSource interface {
	Stats() []shard.Stats
}

// ConnectionCounter reports open client connections. *redisserver.Server
// implements it.
type ConnectionCounter interface {
	ActiveConnections() int
}

// Handler serves the admin endpoints.
type Handler struct {
	stats   StatsSource
	conns   ConnectionCounter
	logger  *slog.Logger
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler. conns may be nil.
func New(stats StatsSource, conns ConnectionCounter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		stats:   stats,
		conns:   conns,
		logger:  logger,
		started: time.Now(),
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /stats", h.handleStats)
	h.mux.HandleFunc("GET /version", h.handleVersion)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// writeJSON writes data inside the response envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(w, r)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error inside the response envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := getRequestID(w, r)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message))
}

// getRequestID returns the ID set by the RequestID middleware on the
// response, falling back to the incoming header.
func getRequestID(w http.ResponseWriter, r *http.Request) string {
	if id := w.Header().Get("X-Request-ID"); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}
