package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"econtab/internal/config"
	"econtab/internal/middleware"
	"econtab/internal/pipeline"
)

// RouterDeps carries the wired components the router exposes.
type RouterDeps struct {
	Runner *pipeline.Runner
	Logger *slog.Logger
	// ProgressWS streams pipeline events; nil disables the endpoint.
	ProgressWS http.Handler
	// Metrics serves the Prometheus scrape endpoint; nil disables it.
	Metrics http.Handler
}

// NewRouter assembles the HTTP surface: the pipeline API, format
// discovery, health, metrics, and the progress websocket.
func NewRouter(cfg config.ServerConfig, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.StructuredLogger(deps.Logger))
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, deps.Logger)
		r.Use(rl.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	if deps.ProgressWS != nil {
		r.Handle("/ws", deps.ProgressWS)
	}

	pipelineHandler := NewPipelineHandler(deps.Runner, deps.Logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pipeline", pipelineHandler.Run)
		r.Get("/formats", HandleFormats)
	})

	return r
}
