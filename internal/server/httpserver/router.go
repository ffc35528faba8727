package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/shardkv-go/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Stats reports per-shard statistics for /stats.
	Stats handler.StatsSource

	// Connections reports open RESP connections for /stats. Optional.
	Connections handler.ConnectionCounter

	// Metrics serves /metrics. Optional.
	Metrics http.Handler

	// Logger for request logging.
	Logger *slog.Logger

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates the admin router with all routes and middleware.
//
// Order: Recover -> RequestID -> Audit -> Handler
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.Stats, cfg.Connections, log)

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	mux.Handle("GET /stats", h)
	mux.Handle("GET /version", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	middlewares := []Middleware{Recover(log), RequestID()}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(log))
	}
	return Chain(mux, middlewares...)
}
